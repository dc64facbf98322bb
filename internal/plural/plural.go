package plural

import "strconv"

// Forms holds the three Russian number-agreement forms of a noun:
// One for 1, 21, 101..., Few for 2-4, 22-24..., Many for everything else.
type Forms struct {
	One  string
	Few  string
	Many string
}

var Events = Forms{One: "событие", Few: "события", Many: "событий"}

// Declension picks the form of a noun that agrees with n.
func Declension(n int, one, few, many string) string {
	if n < 0 {
		n = -n
	}

	lastTwo := n % 100
	if lastTwo >= 11 && lastTwo <= 19 {
		return many
	}

	switch n % 10 {
	case 1:
		return one
	case 2, 3, 4:
		return few
	default:
		return many
	}
}

func (f Forms) Word(n int) string {
	return Declension(n, f.One, f.Few, f.Many)
}

// Format renders "<n> <word>", e.g. "5 событий".
func (f Forms) Format(n int) string {
	return strconv.Itoa(n) + " " + f.Word(n)
}
