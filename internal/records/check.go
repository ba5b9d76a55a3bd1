package records

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/record"
)

// Check is a bank check transaction (tranBank:Check).
type Check struct {
	record.Identity

	Address           *string
	Balance           *decimal.Decimal
	CreatedDate       *time.Time
	Cleared           *bool
	ClearedDate       *time.Time
	CurrencyName      *string
	ExchangeRate      *decimal.Decimal
	LastModifiedDate  *time.Time
	Memo              *string
	PrintVoucher      *bool
	Status            *string
	ToBePrinted       *bool
	TranDate          *time.Time
	TranID            *string
	TransactionNumber *string

	CustomFieldList *record.CustomFieldList
	ExpenseList     *CheckExpenseList

	Account       *domain.RecordRef
	APAcct        *domain.RecordRef
	Currency      *domain.RecordRef
	CustomForm    *domain.RecordRef
	Department    *domain.RecordRef
	Entity        *domain.RecordRef
	Klass         *domain.RecordRef
	Location      *domain.RecordRef
	PostingPeriod *domain.RecordRef
	Subsidiary    *domain.RecordRef
	VoidJournal   *domain.RecordRef
}

var checkSchema = &record.Schema[Check]{
	Name:      "Check",
	TypeName:  "check",
	Namespace: record.TranBank,
	Actions: []domain.Action{
		domain.ActionGet,
		domain.ActionGetList,
		domain.ActionInitialize,
		domain.ActionAdd,
		domain.ActionDelete,
		domain.ActionUpdate,
		domain.ActionUpsert,
		domain.ActionSearch,
	},
	Fields: []record.Field[Check]{
		record.String("address", func(c *Check) **string { return &c.Address }),
		record.Decimal("balance", func(c *Check) **decimal.Decimal { return &c.Balance }),
		record.DateTime("created_date", func(c *Check) **time.Time { return &c.CreatedDate }),
		record.Bool("cleared", func(c *Check) **bool { return &c.Cleared }),
		record.DateTime("cleared_date", func(c *Check) **time.Time { return &c.ClearedDate }),
		record.String("currency_name", func(c *Check) **string { return &c.CurrencyName }),
		record.Decimal("exchange_rate", func(c *Check) **decimal.Decimal { return &c.ExchangeRate }),
		record.DateTime("last_modified_date", func(c *Check) **time.Time { return &c.LastModifiedDate }),
		record.String("memo", func(c *Check) **string { return &c.Memo }),
		record.Bool("print_voucher", func(c *Check) **bool { return &c.PrintVoucher }),
		record.String("status", func(c *Check) **string { return &c.Status }),
		record.Bool("to_be_printed", func(c *Check) **bool { return &c.ToBePrinted }),
		record.DateTime("tran_date", func(c *Check) **time.Time { return &c.TranDate }),
		record.String("tran_id", func(c *Check) **string { return &c.TranID }),
		record.String("transaction_number", func(c *Check) **string { return &c.TransactionNumber }),

		record.Object("custom_field_list", "CustomFieldList", func(c *Check) **record.CustomFieldList { return &c.CustomFieldList }),
		record.Object("expense_list", "CheckExpenseList", func(c *Check) **CheckExpenseList { return &c.ExpenseList }),

		record.Ref("account", func(c *Check) **domain.RecordRef { return &c.Account }),
		record.Ref("ap_acct", func(c *Check) **domain.RecordRef { return &c.APAcct }),
		record.Ref("currency", func(c *Check) **domain.RecordRef { return &c.Currency }),
		record.Ref("custom_form", func(c *Check) **domain.RecordRef { return &c.CustomForm }),
		record.Ref("department", func(c *Check) **domain.RecordRef { return &c.Department }),
		record.Ref("entity", func(c *Check) **domain.RecordRef { return &c.Entity }),
		record.Ref("klass", func(c *Check) **domain.RecordRef { return &c.Klass }),
		record.Ref("location", func(c *Check) **domain.RecordRef { return &c.Location }),
		record.Ref("posting_period", func(c *Check) **domain.RecordRef { return &c.PostingPeriod }),
		record.Ref("subsidiary", func(c *Check) **domain.RecordRef { return &c.Subsidiary }),
		record.Ref("void_journal", func(c *Check) **domain.RecordRef { return &c.VoidJournal }),
	},
	Aliases: map[string]string{
		"created_at": "created_date",
	},
	SearchClass:     "Transaction",
	SearchNamespace: record.TranSales,
	IDs:             func(c *Check) *record.Identity { return &c.Identity },
}

// CheckSchema returns the declaration of Check.
func CheckSchema() *record.Schema[Check] { return checkSchema }

// NewCheck builds a check from an attribute mapping. Keys may be snake_case, wire
// names or "@"-prefixed identifiers.
func NewCheck(attrs record.Attributes) (*Check, error) {
	c := &Check{}
	if err := checkSchema.Assign(c, attrs); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Check) RecordType() string { return checkSchema.RecordType() }
func (c *Check) TypeName() string   { return checkSchema.TypeName }

// ToRecord renders set fields in the tranBank namespace.
func (c *Check) ToRecord() []*domain.Node { return checkSchema.Encode(c) }

// Validate reports custom field values, on the check or its expense lines, that do
// not fit their declared type.
func (c *Check) Validate() error { return checkSchema.Validate(c) }

// CreatedAt is an alias of CreatedDate.
func (c *Check) CreatedAt() *time.Time { return c.CreatedDate }

// Set assigns one attribute by name.
func (c *Check) Set(name string, v any) error { return checkSchema.Set(c, name, v) }
