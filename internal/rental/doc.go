// Package rental implements the monthly rent proration engine for lease
// contract datasets.
//
// The package turns manually maintained contract spreadsheets into a
// per-month rent projection over a fixed 22-month horizon. Input cells
// arrive in wildly inconsistent shapes: Excel serial numbers, Chinese
// calendar notation, half a dozen numeric date formats, amounts with
// stray unit glyphs. All of this defensive parsing is concentrated in
// the value parser so the engine itself only ever sees typed values.
//
// # Core Components
//
//   - values.go: total parsers for dates and amounts (never fail, degrade to absent/zero)
//   - horizon.go: the projected month window and calendar helpers
//   - schedule.go: effective unit price resolution across tiered increases
//   - engine.go: month-by-month proration over the horizon
//   - processor.go: sequential batch driver with row-level failure isolation
//   - batchlog.go: per-batch log capture mirrored to the structured logger
//
// # Proration Rules
//
// A calendar month counts as active when the contract interval overlaps it
// at all; there is no day-level proration. The rent for an active month is
//
//	price × area / 10000
//
// where price is the effective unit price on the first day of that month.
// Up to three scheduled increases per contract replace the unit price from
// their effective date onward; the latest applicable increase wins.
//
// # Failure Model
//
// Parsers are total. A batch aborts only when the dataset is missing a
// required column; every other failure is recorded against its row and
// processing continues.
package rental
