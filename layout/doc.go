// Package layout plans how a table is paginated into a PDF.
//
// The [Planner] takes a [model.Table] and page constraints and decides, in
// order of preference:
//
//  1. Orientation: portrait when the natural width of every column fits,
//     landscape when it fits only there, landscape with shrinking otherwise.
//  2. Font size: the largest size in the descending font ladder at which the
//     table fits the usable width.
//  3. Column widths: natural widths when they fit, otherwise the usable width
//     shared proportionally with a minimum column width floor.
//  4. Column bands: contiguous column ranges rendered as their own page
//     sequences, used only when even the floors do not fit one page.
//  5. Row bands: one contiguous row range per page, computed independently
//     for each column band, with the header height reserved on every page.
//
// Planning never fails because a table is too large. It degrades to smaller
// fonts and more bands instead. It fails only on an empty table or on an
// invalid [Config].
//
// Plans are deterministic: the same table and configuration always produce
// an identical [Plan].
//
// # Usage
//
//	planner, err := layout.NewPlanner(layout.DefaultConfig(), font.NewMetrics())
//	if err != nil {
//		return err // *model.GeometryError
//	}
//	plan, err := planner.Plan(table)
//	fmt.Println(plan.Orientation, plan.FontSize, plan.PageCount())
package layout
