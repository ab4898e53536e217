//go:build !ocr

package ocr

import (
	"context"
	"errors"
	"testing"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New(Options{})
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("New() error = %v, want ErrOCRNotEnabled", err)
	}
	if client != nil {
		t.Error("expected nil client when OCR is disabled")
	}
	if Enabled {
		t.Error("Enabled = true in a build without the ocr tag")
	}
}

func TestStubClient(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client: %v", err)
	}
	if _, err := client.Recognize(context.Background(), []byte{1}); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Recognize() error = %v, want ErrOCRNotEnabled", err)
	}
}

func TestOptionDefaults(t *testing.T) {
	var o Options
	if got := o.languages(); len(got) != 1 || got[0] != "eng" {
		t.Errorf("languages() = %v", got)
	}
	if o.pageSegMode() != PSMAuto {
		t.Errorf("pageSegMode() = %d", o.pageSegMode())
	}
	o = Options{Languages: []string{"deu", "fra"}, PageSegMode: PSMSingleLine}
	if got := o.languages(); len(got) != 2 || o.pageSegMode() != PSMSingleLine {
		t.Errorf("explicit options not kept: %v %d", got, o.pageSegMode())
	}
}
