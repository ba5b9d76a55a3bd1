package records

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/record"
)

// CheckExpense is one expense line of a check.
type CheckExpense struct {
	Amount               *decimal.Decimal
	AmortizStartDate     *time.Time
	AmortizationEndDate  *time.Time
	AmortizationResidual *string
	GrossAmt             *decimal.Decimal
	IsBillable           *bool
	Line                 *int64
	Memo                 *string
	Tax1Amt              *decimal.Decimal
	TaxRate1             *decimal.Decimal

	CustomFieldList *record.CustomFieldList

	Account           *domain.RecordRef
	AmortizationSched *domain.RecordRef
	Category          *domain.RecordRef
	Customer          *domain.RecordRef
	Department        *domain.RecordRef
	Klass             *domain.RecordRef
	Location          *domain.RecordRef
	TaxCode           *domain.RecordRef
}

var checkExpenseSchema = &record.Schema[CheckExpense]{
	Name:      "CheckExpense",
	TypeName:  "checkExpense",
	Namespace: record.TranBank,
	Fields: []record.Field[CheckExpense]{
		record.Decimal("amount", func(e *CheckExpense) **decimal.Decimal { return &e.Amount }),
		record.DateTime("amortiz_start_date", func(e *CheckExpense) **time.Time { return &e.AmortizStartDate }),
		record.DateTime("amortization_end_date", func(e *CheckExpense) **time.Time { return &e.AmortizationEndDate }),
		record.String("amortization_residual", func(e *CheckExpense) **string { return &e.AmortizationResidual }),
		record.Decimal("gross_amt", func(e *CheckExpense) **decimal.Decimal { return &e.GrossAmt }),
		record.Bool("is_billable", func(e *CheckExpense) **bool { return &e.IsBillable }),
		record.Long("line", func(e *CheckExpense) **int64 { return &e.Line }),
		record.String("memo", func(e *CheckExpense) **string { return &e.Memo }),
		record.Decimal("tax1_amt", func(e *CheckExpense) **decimal.Decimal { return &e.Tax1Amt }),
		record.Decimal("tax_rate1", func(e *CheckExpense) **decimal.Decimal { return &e.TaxRate1 }),

		record.Object("custom_field_list", "CustomFieldList", func(e *CheckExpense) **record.CustomFieldList { return &e.CustomFieldList }),

		record.Ref("account", func(e *CheckExpense) **domain.RecordRef { return &e.Account }),
		record.Ref("amortization_sched", func(e *CheckExpense) **domain.RecordRef { return &e.AmortizationSched }),
		record.Ref("category", func(e *CheckExpense) **domain.RecordRef { return &e.Category }),
		record.Ref("customer", func(e *CheckExpense) **domain.RecordRef { return &e.Customer }),
		record.Ref("department", func(e *CheckExpense) **domain.RecordRef { return &e.Department }),
		record.Ref("klass", func(e *CheckExpense) **domain.RecordRef { return &e.Klass }),
		record.Ref("location", func(e *CheckExpense) **domain.RecordRef { return &e.Location }),
		record.Ref("tax_code", func(e *CheckExpense) **domain.RecordRef { return &e.TaxCode }),
	},
}

// NewCheckExpense builds an expense line from attributes.
func NewCheckExpense(attrs record.Attributes) (*CheckExpense, error) {
	e := &CheckExpense{}
	if err := checkExpenseSchema.Assign(e, attrs); err != nil {
		return nil, err
	}
	return e, nil
}

// ToRecord renders set fields in the tranBank namespace.
func (e *CheckExpense) ToRecord() []*domain.Node { return checkExpenseSchema.Encode(e) }

func (e *CheckExpense) Validate() error { return checkExpenseSchema.Validate(e) }
