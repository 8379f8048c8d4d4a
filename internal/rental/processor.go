package rental

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"leasecli/pkg/contracts/domain"
)

// Processor drives one batch over a contract dataset. Rows are processed
// strictly sequentially; a bad row is recorded and skipped, never aborting
// the batch. The only fatal condition is a dataset missing one of the
// required columns.
type Processor struct {
	horizon       Horizon
	logger        *slog.Logger
	progressEvery int
	onProgress    func(current, total int)
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithProgressEvery sets how many rows pass between progress log lines.
func WithProgressEvery(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.progressEvery = n
		}
	}
}

// WithProgressFunc installs a callback invoked once per row with the
// 1-based row number and the total row count.
func WithProgressFunc(fn func(current, total int)) ProcessorOption {
	return func(p *Processor) {
		p.onProgress = fn
	}
}

// NewProcessor creates a batch processor over the given horizon.
func NewProcessor(horizon Horizon, logger *slog.Logger, opts ...ProcessorOption) *Processor {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Processor{
		horizon:       horizon,
		logger:        logger,
		progressEvery: 50,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Horizon returns the month window this processor projects over.
func (p *Processor) Horizon() Horizon {
	return p.horizon
}

// Process runs one batch over the dataset and returns the populated
// outcome. Each invocation starts with a fresh log buffer; no state is
// carried between batches.
func (p *Processor) Process(ctx context.Context, table *domain.Table) *domain.Outcome {
	start := time.Now()
	batchLog := NewBatchLog(p.logger)
	engine := NewEngine(p.horizon, batchLog)

	total := table.RowCount()
	var (
		results []domain.ContractResult
		errs    []string
	)

	batchLog.Info(ctx, "开始处理租赁数据")
	batchLog.Info(ctx, fmt.Sprintf("共 %d 条记录需要处理", total))

	if missing := table.MissingColumns(domain.RequiredColumns()); len(missing) > 0 {
		msg := fmt.Sprintf("缺少必填字段: %s", strings.Join(missing, ", "))
		errs = append(errs, msg)
		batchLog.Error(ctx, msg)
		out := p.outcome(start, total, results, errs, batchLog)
		out.SchemaError = msg
		return out
	}

	for i, row := range table.Rows {
		rowNum := i + 1

		func() {
			defer func() {
				if r := recover(); r != nil {
					msg := fmt.Sprintf("行 %d 处理错误: %v", rowNum, r)
					errs = append(errs, msg)
					batchLog.Error(ctx, msg)
				}
			}()

			if p.onProgress != nil {
				p.onProgress(rowNum, total)
			}

			if rowNum%p.progressEvery == 0 {
				batchLog.Info(ctx, fmt.Sprintf("正在处理第 %d/%d 条记录", rowNum, total))
			}

			var missingValues []string
			for _, col := range domain.RequiredColumns() {
				v, _ := table.Field(row, col)
				if isMissingValue(v) {
					missingValues = append(missingValues, col)
				}
			}
			if len(missingValues) > 0 {
				msg := fmt.Sprintf("行 %d: 必填字段为空 (%s)", rowNum, strings.Join(missingValues, ", "))
				errs = append(errs, msg)
				batchLog.Warning(ctx, msg)
				return
			}

			startVal, _ := table.Field(row, domain.ColLeaseStart)
			endVal, _ := table.Field(row, domain.ColLeaseEnd)
			startDate, startOK := ParseDate(startVal)
			endDate, endOK := ParseDate(endVal)
			if !startOK || !endOK {
				msg := fmt.Sprintf("行 %d: 日期格式错误 (起租: %s, 到期: %s)", rowNum, startVal.String(), endVal.String())
				errs = append(errs, msg)
				batchLog.Warning(ctx, msg)
				return
			}

			areaVal, _ := table.Field(row, domain.ColArea)
			area := ParseAmount(areaVal)
			if area.Sign() <= 0 {
				msg := fmt.Sprintf("行 %d: 计租面积无效 (%s)", rowNum, areaVal.String())
				errs = append(errs, msg)
				batchLog.Warning(ctx, msg)
				return
			}

			priceVal, _ := table.Field(row, domain.ColBasePrice)
			basePrice := ParseAmount(priceVal)

			term := domain.ContractTerm{
				Client:    clientName(table, row),
				Start:     startDate,
				End:       endDate,
				Area:      area,
				BasePrice: basePrice,
				Increases: collectIncreases(table, row),
			}

			subtotal, months := engine.Prorate(ctx, term)

			results = append(results, domain.ContractResult{
				Client:    term.Client,
				Start:     startDate,
				End:       endDate,
				Area:      area,
				BasePrice: basePrice,
				Subtotal:  subtotal,
				Months:    months,
			})
			batchLog.Info(ctx, fmt.Sprintf("行 %d 处理成功: %s", rowNum, term.Client))
		}()
	}

	if len(results) > 0 {
		elapsed := time.Since(start)
		batchLog.Info(ctx, fmt.Sprintf("数据处理完成! 共处理 %d 条记录，成功计算 %d 条", total, len(results)))
		batchLog.Info(ctx, fmt.Sprintf("处理耗时: %.2f秒", elapsed.Seconds()))
	} else {
		batchLog.Warning(ctx, "没有成功计算的数据记录")
	}

	return p.outcome(start, total, results, errs, batchLog)
}

func (p *Processor) outcome(start time.Time, total int, results []domain.ContractResult, errs []string, batchLog *BatchLog) *domain.Outcome {
	return &domain.Outcome{
		Results: results,
		Errors:  errs,
		Logs:    batchLog.Entries(),
		Stats: domain.BatchStats{
			BatchID:        uuid.New().String(),
			TotalRows:      total,
			Succeeded:      len(results),
			Skipped:        total - len(results),
			StartedAt:      start,
			ElapsedSeconds: time.Since(start).Seconds(),
		},
	}
}

// collectIncreases gathers the contract's declared price increases in
// column order. An increase participates only when its date parses and its
// price is positive; anything else is treated as no event.
func collectIncreases(table *domain.Table, row domain.Row) []domain.PriceIncrease {
	var increases []domain.PriceIncrease
	for _, pair := range domain.IncreaseColumns() {
		dateVal, _ := table.Field(row, pair.DateColumn)
		priceVal, _ := table.Field(row, pair.PriceColumn)

		date, ok := ParseDate(dateVal)
		price := ParseAmount(priceVal)
		if ok && price.Sign() > 0 {
			increases = append(increases, domain.PriceIncrease{Date: date, Price: price})
		}
	}
	return increases
}

func clientName(table *domain.Table, row domain.Row) string {
	v, _ := table.Field(row, domain.ColClient)
	name := strings.TrimSpace(v.String())
	if name == "" {
		return domain.UnknownClient
	}
	return name
}

// isMissingValue reports whether a required cell counts as absent: empty,
// whitespace, or a bare dash.
func isMissingValue(v domain.Value) bool {
	if v.IsEmpty() {
		return true
	}
	if v.Kind != domain.ValueText {
		return false
	}
	t := strings.TrimSpace(v.Text)
	return t == "" || t == "-"
}
