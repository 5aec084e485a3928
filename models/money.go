package models

import "fmt"

// Currency is the display currency of every amount.
const Currency = "PKR"

// Amount is a money value in minor currency units (1 PKR = 100).
type Amount int64

// Major converts whole currency units to an Amount.
func Major(units int64) Amount {
	return Amount(units * 100)
}

// Times returns a*qty.
func (a Amount) Times(qty int) Amount {
	return a * Amount(qty)
}

func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s %s%d.%02d", Currency, sign, v/100, v%100)
}
