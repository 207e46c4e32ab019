// Package calc implements the dashboard's inline calculator: a display
// string driven by key presses, evaluated with a small arithmetic
// parser. Evaluation never executes anything beyond numeric literals
// and the five binary operators.
package calc

import (
	"strconv"
	"strings"
)

// ErrorDisplay is the sentinel shown after a failed evaluation. Any
// subsequent key recovers from it.
const ErrorDisplay = "Error"

const operators = "+-*/%"

// Calculator is a display-string state machine. The zero value is not
// ready; use New.
type Calculator struct {
	display   string
	overwrite bool
}

// New returns a calculator showing "0", ready to be overwritten by the
// first digit.
func New() *Calculator {
	return &Calculator{display: "0", overwrite: true}
}

// Display returns the current display string.
func (c *Calculator) Display() string {
	return c.display
}

// Press feeds one key to the state machine. Recognized keys are the
// digits, ".", the operators + - * / %, and the controls "C" (clear),
// "DEL" (delete last), "+/-" (negate) and "=" (evaluate). Unrecognized
// keys are ignored.
func (c *Calculator) Press(key string) {
	switch {
	case key == "C":
		c.clear()
	case key == "DEL":
		c.deleteLast()
	case key == "+/-":
		c.negate()
	case key == "=":
		c.evaluate()
	case key == ".":
		c.decimal()
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		c.digit(key)
	case len(key) == 1 && strings.ContainsAny(key, operators):
		c.operator(key)
	}
}

func (c *Calculator) clear() {
	c.display = "0"
	c.overwrite = true
}

func (c *Calculator) deleteLast() {
	if c.overwrite || len(c.display) <= 1 {
		c.display = "0"
		c.overwrite = true
		return
	}
	c.display = c.display[:len(c.display)-1]
}

func (c *Calculator) negate() {
	if strings.HasPrefix(c.display, "-") {
		c.display = c.display[1:]
	} else {
		c.display = "-" + c.display
	}
}

func (c *Calculator) digit(d string) {
	if c.overwrite {
		c.display = d
		c.overwrite = false
		return
	}
	c.display += d
}

func (c *Calculator) decimal() {
	if c.overwrite {
		c.display = "0."
		c.overwrite = false
		return
	}
	if c.currentNumberHasDecimal() {
		return
	}
	c.display += "."
}

// currentNumberHasDecimal reports whether the number being typed, the
// segment after the last operator, already contains a decimal point.
func (c *Calculator) currentNumberHasDecimal() bool {
	segment := c.display
	if i := strings.LastIndexAny(segment, operators); i >= 0 {
		segment = segment[i+1:]
	}
	return strings.Contains(segment, ".")
}

func (c *Calculator) operator(op string) {
	c.display += op
	c.overwrite = false
}

func (c *Calculator) evaluate() {
	result, err := Eval(c.display)
	if err != nil {
		c.display = ErrorDisplay
		c.overwrite = true
		return
	}
	c.display = strconv.FormatFloat(result, 'f', -1, 64)
	c.overwrite = true
}
