package domain

import (
	"fmt"
	"math"
)

// LineItem is one purchased or sold item on a document.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	TotalPrice  float64 `json:"total_price"` // original currency
}

// FinancialDocument is one normalized transaction.
// Values built through NewFinancialDocument always satisfy Validate.
type FinancialDocument struct {
	UserID          string           `json:"userId"`
	Name            string           `json:"name"`
	Amount          float64          `json:"amount"` // original currency
	Type            TransactionType  `json:"type"`
	ExpenseCategory *ExpenseCategory `json:"expenseCategory"`
	IncomeCategory  *IncomeCategory  `json:"incomeCategory"`
	Currency        string           `json:"currency"`
	Description     *string          `json:"description"`
	LineItems       []LineItem       `json:"line_items"`
}

// ProcessedFinancialDocument is a FinancialDocument expressed in both reference currencies.
type ProcessedFinancialDocument struct {
	FinancialDocument
	TotalAmountINR   float64 `json:"total_amount_inr"`
	TotalAmountUSD   float64 `json:"total_amount_usd"`
	ExchangeRateDate string  `json:"exchange_rate_date"`
}

// Field names as they appear in parsed key/value data.
const (
	FieldUserID          = "userId"
	FieldName            = "name"
	FieldAmount          = "amount"
	FieldType            = "type"
	FieldExpenseCategory = "expenseCategory"
	FieldIncomeCategory  = "incomeCategory"
	FieldCurrency        = "currency"
	FieldDescription     = "description"
	FieldLineItems       = "line_items"

	FieldLineDescription = "description"
	FieldLineQuantity    = "quantity"
	FieldLineTotalPrice  = "total_price"
)

// DefaultQuantity is used for line items that carry no quantity.
const DefaultQuantity = 1.0

// NewFinancialDocument builds a document from parsed key/value data.
// It returns either a document that satisfies every invariant or a *ValidationError.
// Keys it does not know are ignored.
func NewFinancialDocument(data map[string]any) (*FinancialDocument, error) {
	if data == nil {
		return nil, newValidationError("document", RuleMissingField, "is required")
	}

	userID, err := getStringField(data, FieldUserID, true)
	if err != nil {
		return nil, err
	}
	name, err := getStringField(data, FieldName, true)
	if err != nil {
		return nil, err
	}
	amount, _, err := getFloat64Field(data, FieldAmount, true)
	if err != nil {
		return nil, err
	}
	typeStr, err := getStringField(data, FieldType, true)
	if err != nil {
		return nil, err
	}
	currency, err := getStringField(data, FieldCurrency, true)
	if err != nil {
		return nil, err
	}
	description, err := getOptionalStringField(data, FieldDescription)
	if err != nil {
		return nil, err
	}

	doc := &FinancialDocument{
		UserID:      userID,
		Name:        name,
		Amount:      amount,
		Type:        TransactionType(typeStr),
		Currency:    currency,
		Description: description,
	}

	expense, err := getOptionalStringField(data, FieldExpenseCategory)
	if err != nil {
		return nil, err
	}
	if expense != nil {
		c := ExpenseCategory(*expense)
		doc.ExpenseCategory = &c
	}

	income, err := getOptionalStringField(data, FieldIncomeCategory)
	if err != nil {
		return nil, err
	}
	if income != nil {
		c := IncomeCategory(*income)
		doc.IncomeCategory = &c
	}

	items, err := getLineItems(data)
	if err != nil {
		return nil, err
	}
	doc.LineItems = items

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks the field rules and the category invariant.
func (d *FinancialDocument) Validate() error {
	if d.UserID == "" {
		return newValidationError(FieldUserID, RuleMissingField, "is required")
	}
	if d.Name == "" {
		return newValidationError(FieldName, RuleMissingField, "is required")
	}
	if math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) {
		return newValidationError(FieldAmount, RuleInvalidValue, "must be a finite number")
	}
	if !d.Type.Valid() {
		return newValidationError(FieldType, RuleInvalidValue,
			fmt.Sprintf("must be one of %v, got %q", TransactionTypes(), d.Type))
	}
	if d.Currency == "" {
		return newValidationError(FieldCurrency, RuleMissingField, "is required")
	}
	if d.ExpenseCategory != nil && !d.ExpenseCategory.Valid() {
		return newValidationError(FieldExpenseCategory, RuleInvalidValue,
			fmt.Sprintf("must be one of %v, got %q", ExpenseCategories(), *d.ExpenseCategory))
	}
	if d.IncomeCategory != nil && !d.IncomeCategory.Valid() {
		return newValidationError(FieldIncomeCategory, RuleInvalidValue,
			fmt.Sprintf("must be one of %v, got %q", IncomeCategories(), *d.IncomeCategory))
	}
	for i, item := range d.LineItems {
		if err := item.validate(i); err != nil {
			return err
		}
	}
	return d.checkCategories()
}

// checkCategories enforces the Expense/Income category pairing.
// Rent, Allowance and Other are left unconstrained.
func (d *FinancialDocument) checkCategories() error {
	switch d.Type {
	case TypeExpense:
		if d.ExpenseCategory == nil {
			return newValidationError(FieldExpenseCategory, RuleMissingCategory, "must be set for Expense transactions")
		}
		if d.IncomeCategory != nil {
			return newValidationError(FieldIncomeCategory, RuleConflictingCategory, "must not be set for Expense transactions")
		}
	case TypeIncome:
		if d.IncomeCategory == nil {
			return newValidationError(FieldIncomeCategory, RuleMissingCategory, "must be set for Income transactions")
		}
		if d.ExpenseCategory != nil {
			return newValidationError(FieldExpenseCategory, RuleConflictingCategory, "must not be set for Income transactions")
		}
	}
	return nil
}

func (li LineItem) validate(index int) error {
	field := fmt.Sprintf("%s[%d]", FieldLineItems, index)
	if li.Description == "" {
		return newValidationError(field+"."+FieldLineDescription, RuleMissingField, "is required")
	}
	if !(li.Quantity > 0) || math.IsInf(li.Quantity, 0) {
		return newValidationError(field+"."+FieldLineQuantity, RuleInvalidValue,
			fmt.Sprintf("must be a positive number, got %v", li.Quantity))
	}
	if math.IsNaN(li.TotalPrice) || math.IsInf(li.TotalPrice, 0) {
		return newValidationError(field+"."+FieldLineTotalPrice, RuleInvalidValue, "must be a finite number")
	}
	return nil
}

// NewProcessedFinancialDocument combines a validated document with its converted totals.
// The document is copied so later changes to doc do not leak into the result.
func NewProcessedFinancialDocument(doc *FinancialDocument, amountINR, amountUSD float64, rateDate string) (*ProcessedFinancialDocument, error) {
	if doc == nil {
		return nil, fmt.Errorf("processed document: nil financial document")
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("processed document: %w", err)
	}
	for name, v := range map[string]float64{"total_amount_inr": amountINR, "total_amount_usd": amountUSD} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("processed document: %s is not a finite number", name)
		}
	}
	if rateDate == "" {
		return nil, fmt.Errorf("processed document: exchange_rate_date is empty")
	}

	return &ProcessedFinancialDocument{
		FinancialDocument: doc.clone(),
		TotalAmountINR:    amountINR,
		TotalAmountUSD:    amountUSD,
		ExchangeRateDate:  rateDate,
	}, nil
}

func (d *FinancialDocument) clone() FinancialDocument {
	out := *d
	if d.ExpenseCategory != nil {
		c := *d.ExpenseCategory
		out.ExpenseCategory = &c
	}
	if d.IncomeCategory != nil {
		c := *d.IncomeCategory
		out.IncomeCategory = &c
	}
	if d.Description != nil {
		s := *d.Description
		out.Description = &s
	}
	if d.LineItems != nil {
		out.LineItems = make([]LineItem, len(d.LineItems))
		copy(out.LineItems, d.LineItems)
	}
	return out
}
