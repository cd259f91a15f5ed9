package calculator

// Operation is the case-sensitive tag naming an arithmetic rule.
type Operation string

const (
	Addition       Operation = "Addition"
	Subtraction    Operation = "Subtraction"
	Multiplication Operation = "Multiplication"
	Division       Operation = "Division"
	Power          Operation = "Power"
	Root           Operation = "Root"
)

// Operations lists every supported operation in display order.
func Operations() []Operation {
	return []Operation{Addition, Subtraction, Multiplication, Division, Power, Root}
}

// Valid reports whether o is one of the supported operations.
func (o Operation) Valid() bool {
	switch o {
	case Addition, Subtraction, Multiplication, Division, Power, Root:
		return true
	}
	return false
}

func (o Operation) String() string {
	return string(o)
}
