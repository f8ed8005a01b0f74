package extraction

import (
	"strings"

	"github.com/dvloznov/finance-docproc/internal/domain"
)

// BuildPrompt renders the extraction instructions for rawText.
// Category lists come from the domain enumerations, the same lists used for validation.
func BuildPrompt(rawText string) string {
	var b strings.Builder

	b.WriteString("You are an expert financial data entry assistant. ")
	b.WriteString("Your task is to analyze the raw text from a financial document.\n\n")

	b.WriteString("Crucial Instructions:\n")
	b.WriteString("1. Identify the transaction \"type\". It MUST be one of: ")
	b.WriteString(joinTypes(domain.TransactionTypes()))
	b.WriteString(".\n")
	b.WriteString("2. Based on the \"type\", you MUST categorize it by choosing ONLY from the provided lists:\n")
	b.WriteString("   - If \"type\" is \"Expense\", \"expenseCategory\" MUST be one of: ")
	b.WriteString(joinExpense(domain.ExpenseCategories()))
	b.WriteString(". \"incomeCategory\" MUST be null.\n")
	b.WriteString("   - If \"type\" is \"Income\", \"incomeCategory\" MUST be one of: ")
	b.WriteString(joinIncome(domain.IncomeCategories()))
	b.WriteString(". \"expenseCategory\" MUST be null.\n")
	b.WriteString("   - For any other \"type\", set both categories to null.\n")
	b.WriteString("3. Identify the \"name\" of the vendor or source.\n")
	b.WriteString("4. Identify the total \"amount\" and the \"currency\" (use a 3-letter ISO code, e.g. INR for ₹).\n")
	b.WriteString("5. For \"line_items\", each item MUST be an object with keys \"description\", \"quantity\" and \"total_price\".\n\n")

	b.WriteString("Output Format:\n")
	b.WriteString("Return ONE JSON object with exactly these fields. Do not include \"userId\".\n")
	b.WriteString("- \"name\": string\n")
	b.WriteString("- \"amount\": number (total in the original currency)\n")
	b.WriteString("- \"type\": string\n")
	b.WriteString("- \"expenseCategory\": string or null\n")
	b.WriteString("- \"incomeCategory\": string or null\n")
	b.WriteString("- \"currency\": string (3-letter code)\n")
	b.WriteString("- \"description\": string or null\n")
	b.WriteString("- \"line_items\": array of {\"description\": string, \"quantity\": number (default 1), \"total_price\": number} or null\n\n")

	b.WriteString("Return ONLY valid raw JSON. Do NOT wrap the response in code fences.\n\n")

	b.WriteString("---\n")
	b.WriteString("Raw Text to Analyze:\n")
	b.WriteString(rawText)
	b.WriteString("\n---\n")

	return b.String()
}

func joinTypes(types []domain.TransactionType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func joinExpense(cats []domain.ExpenseCategory) string {
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func joinIncome(cats []domain.IncomeCategory) string {
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
