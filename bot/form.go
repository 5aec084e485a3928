package bot

type formKind int

const (
	formSignup formKind = iota + 1
	formLogin
	formCheckout
)

type formField struct {
	prompt string
	secret bool // the user's answer is deleted from the chat
}

var formFields = map[formKind][]formField{
	formSignup: {
		{prompt: "Choose a username:"},
		{prompt: "Your email:"},
		{prompt: "Choose a password:", secret: true},
		{prompt: "Confirm the password:", secret: true},
	},
	formLogin: {
		{prompt: "Username:"},
		{prompt: "Password:", secret: true},
	},
	formCheckout: {
		{prompt: "Card number (1234 5678 9012 3456):", secret: true},
		{prompt: "Expiry date (MM/YY):", secret: true},
		{prompt: "CVV:", secret: true},
		{prompt: "Cardholder name:"},
		{prompt: "Delivery address:"},
		{prompt: "Phone number:"},
	},
}

// form collects answers one message at a time.
type form struct {
	kind   formKind
	values []string
}

func newForm(kind formKind) *form {
	return &form{kind: kind}
}

// current is the field waiting for an answer.
func (f *form) current() formField {
	return formFields[f.kind][len(f.values)]
}

func (f *form) answer(v string) {
	f.values = append(f.values, v)
}

func (f *form) done() bool {
	return len(f.values) == len(formFields[f.kind])
}
