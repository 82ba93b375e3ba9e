package matcher

import "regexp"

// linePattern pairs a compiled line-shape expression with the mapping from
// capture groups to transaction fields. Field order varies between shapes
// (some statements print the description before the date), which is why each
// pattern declares its own group indices. A zero index means the pattern
// does not capture that field.
type linePattern struct {
	name    string
	re      *regexp.Regexp
	date    int
	desc    int
	amount  int
	balance int
}

// Building blocks shared by the pattern table.
const (
	reDate   = `(\d{1,2}/\d{1,2}/\d{2,4})`
	reAmount = `((?:Rs\.?\s*|\$\s*)?[\d,]+(?:\.\d+)?(?:\s*(?:Cr|Rs))?)`
	reMoney  = `([\d,]+\.\d{2})`
)

// linePatterns is the ordered dispatch table. Evaluation is strictly
// first-match-wins: the order encodes disambiguation policy, with structured
// shapes first and permissive fallbacks last. Do not collapse into a single
// expression and do not reorder without updating the priority tests.
var linePatterns = []linePattern{
	{
		name:   "dash_with_balance",
		re:     regexp.MustCompile(`^` + reDate + `\s*-\s*(.+?)\s*-\s*` + reMoney + `\s*-\s*` + reMoney + `$`),
		date:   1, desc: 2, amount: 3, balance: 4,
	},
	{
		name: "dash_separated",
		re:   regexp.MustCompile(`^` + reDate + `\s*-\s*(.+?)\s*-\s*` + reAmount + `$`),
		date: 1, desc: 2, amount: 3,
	},
	{
		name: "colon_separated",
		re:   regexp.MustCompile(`^` + reDate + `\s*:\s*(.+?)\s*:\s*` + reAmount + `$`),
		date: 1, desc: 2, amount: 3,
	},
	{
		name:   "dollar_with_balance",
		re:     regexp.MustCompile(`^` + reDate + `\s+(.+?)\s+\$\s*` + reMoney + `\s+\$?\s*` + reMoney + `$`),
		date:   1, desc: 2, amount: 3, balance: 4,
	},
	{
		name: "dollar_prefixed",
		re:   regexp.MustCompile(`^` + reDate + `\s+(.+?)\s+(\$\s*[\d,]+(?:\.\d+)?)$`),
		date: 1, desc: 2, amount: 3,
	},
	{
		name:   "rupee_with_balance",
		re:     regexp.MustCompile(`^` + reDate + `\s+(.+?)\s+Rs\.?\s*` + reMoney + `\s+Rs\.?\s*` + reMoney + `$`),
		date:   1, desc: 2, amount: 3, balance: 4,
	},
	{
		name: "rupee_prefixed",
		re:   regexp.MustCompile(`^` + reDate + `\s+(.+?)\s+(Rs\.?\s*[\d,]+(?:\.\d+)?)$`),
		date: 1, desc: 2, amount: 3,
	},
	{
		name: "credit_suffix",
		re:   regexp.MustCompile(`^` + reDate + `\s+(.+?)\s+([\d,]+(?:\.\d+)?\s*Cr)$`),
		date: 1, desc: 2, amount: 3,
	},
	{
		name: "rupee_suffix",
		re:   regexp.MustCompile(`^` + reDate + `\s+(.+?)\s+([\d,]+(?:\.\d+)?\s*Rs)$`),
		date: 1, desc: 2, amount: 3,
	},
	{
		name: "description_first_currency",
		re:   regexp.MustCompile(`^([A-Za-z].+?)\s+` + reDate + `\s+((?:Rs\.?\s*|\$\s*)[\d,]+(?:\.\d+)?)$`),
		date: 2, desc: 1, amount: 3,
	},
	{
		name: "description_first_plain",
		re:   regexp.MustCompile(`^([A-Za-z].+?)\s+` + reDate + `\s+` + reMoney + `$`),
		date: 2, desc: 1, amount: 3,
	},
	{
		name: "glued_alphanumeric",
		re:   regexp.MustCompile(`^` + reDate + `([A-Za-z].*?[A-Za-z])((?:Rs\.?|\$)?[\d,]+\.\d{2}(?:Cr|Rs)?)$`),
		date: 1, desc: 2, amount: 3,
	},
	{
		name:   "plain_with_balance",
		re:     regexp.MustCompile(`^` + reDate + `\s+(.+?)\s+` + reMoney + `\s+` + reMoney + `$`),
		date:   1, desc: 2, amount: 3, balance: 4,
	},
	{
		name: "comma_thousands",
		re:   regexp.MustCompile(`^` + reDate + `\s+(.+?)\s+(\d{1,3}(?:,\d{3})+\.\d{2})$`),
		date: 1, desc: 2, amount: 3,
	},
	{
		name: "plain_decimal",
		re:   regexp.MustCompile(`^` + reDate + `\s+(.+?)\s+` + reMoney + `$`),
		date: 1, desc: 2, amount: 3,
	},
	{
		name: "integer_amount",
		re:   regexp.MustCompile(`^` + reDate + `\s+(.+?)\s+(\d+)$`),
		date: 1, desc: 2, amount: 3,
	},
	{
		name: "currency_anywhere",
		re:   regexp.MustCompile(`^` + reDate + `\s+(.*?)((?:Rs\.?|\$)\s*[\d,]+(?:\.\d+)?)(.*)$`),
		date: 1, desc: 2, amount: 3,
	},
	{
		name: "decimal_anywhere",
		re:   regexp.MustCompile(`^` + reDate + `\s+(.*?)` + reMoney + `(.*)$`),
		date: 1, desc: 2, amount: 3,
	},
	{
		name: "date_only_tail",
		re:   regexp.MustCompile(`^` + reDate + `\s*-?\s*(.+?)\s+` + reAmount + `\s*$`),
		date: 1, desc: 2, amount: 3,
	},
}
