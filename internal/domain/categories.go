package domain

// TransactionType is the primary classification of a financial document.
type TransactionType string

const (
	TypeExpense   TransactionType = "Expense"
	TypeIncome    TransactionType = "Income"
	TypeRent      TransactionType = "Rent"
	TypeAllowance TransactionType = "Allowance"
	TypeOther     TransactionType = "Other"
)

// TransactionTypes returns every accepted transaction type in prompt order.
func TransactionTypes() []TransactionType {
	return []TransactionType{TypeExpense, TypeIncome, TypeRent, TypeAllowance, TypeOther}
}

// ExpenseCategory is the kind of an Expense transaction.
type ExpenseCategory string

const (
	ExpenseFoodAndDining     ExpenseCategory = "FOOD_AND_DINING"
	ExpenseTransportation    ExpenseCategory = "TRANSPORTATION"
	ExpenseShopping          ExpenseCategory = "SHOPPING"
	ExpenseEntertainment     ExpenseCategory = "ENTERTAINMENT"
	ExpenseBillsAndUtilities ExpenseCategory = "BILLS_AND_UTILITIES"
	ExpenseHealthcare        ExpenseCategory = "HEALTHCARE"
	ExpenseTravel            ExpenseCategory = "TRAVEL"
	ExpenseEducation         ExpenseCategory = "EDUCATION"
	ExpenseOthers            ExpenseCategory = "OTHERS"
)

// IncomeCategory is the kind of an Income transaction.
type IncomeCategory string

const (
	IncomeSalary       IncomeCategory = "SALARY"
	IncomeBusiness     IncomeCategory = "BUSINESS"
	IncomeInvestments  IncomeCategory = "INVESTMENTS"
	IncomeGifts        IncomeCategory = "GIFTS"
	IncomeFreelance    IncomeCategory = "FREELANCE"
	IncomeRentalIncome IncomeCategory = "RENTAL_INCOME"
	IncomeInterest     IncomeCategory = "INTEREST"
	IncomeOthers       IncomeCategory = "OTHERS"
)

// The order of these slices is the order used in the extraction prompt.
var (
	expenseCategories = []ExpenseCategory{
		ExpenseFoodAndDining,
		ExpenseTransportation,
		ExpenseShopping,
		ExpenseEntertainment,
		ExpenseBillsAndUtilities,
		ExpenseHealthcare,
		ExpenseTravel,
		ExpenseEducation,
		ExpenseOthers,
	}

	incomeCategories = []IncomeCategory{
		IncomeSalary,
		IncomeBusiness,
		IncomeInvestments,
		IncomeGifts,
		IncomeFreelance,
		IncomeRentalIncome,
		IncomeInterest,
		IncomeOthers,
	}

	expenseDisplayNames = map[ExpenseCategory]string{
		ExpenseFoodAndDining:     "Food & Dining",
		ExpenseTransportation:    "Transportation",
		ExpenseShopping:          "Shopping",
		ExpenseEntertainment:     "Entertainment",
		ExpenseBillsAndUtilities: "Bills & Utilities",
		ExpenseHealthcare:        "Healthcare",
		ExpenseTravel:            "Travel",
		ExpenseEducation:         "Education",
		ExpenseOthers:            "Others",
	}

	incomeDisplayNames = map[IncomeCategory]string{
		IncomeSalary:       "Salary",
		IncomeBusiness:     "Business",
		IncomeInvestments:  "Investments",
		IncomeGifts:        "Gifts",
		IncomeFreelance:    "Freelance",
		IncomeRentalIncome: "Rental Income",
		IncomeInterest:     "Interest",
		IncomeOthers:       "Others",
	}
)

// ExpenseCategories returns a copy of the closed expense enumeration.
func ExpenseCategories() []ExpenseCategory {
	out := make([]ExpenseCategory, len(expenseCategories))
	copy(out, expenseCategories)
	return out
}

// IncomeCategories returns a copy of the closed income enumeration.
func IncomeCategories() []IncomeCategory {
	out := make([]IncomeCategory, len(incomeCategories))
	copy(out, incomeCategories)
	return out
}

// Valid reports whether t is one of the accepted transaction types.
func (t TransactionType) Valid() bool {
	for _, v := range TransactionTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// Valid reports whether c is a member of the expense enumeration.
func (c ExpenseCategory) Valid() bool {
	_, ok := expenseDisplayNames[c]
	return ok
}

// DisplayName returns the human readable label, or the raw value when unknown.
func (c ExpenseCategory) DisplayName() string {
	if name, ok := expenseDisplayNames[c]; ok {
		return name
	}
	return string(c)
}

// Valid reports whether c is a member of the income enumeration.
func (c IncomeCategory) Valid() bool {
	_, ok := incomeDisplayNames[c]
	return ok
}

// DisplayName returns the human readable label, or the raw value when unknown.
func (c IncomeCategory) DisplayName() string {
	if name, ok := incomeDisplayNames[c]; ok {
		return name
	}
	return string(c)
}
