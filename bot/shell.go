package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"restaurant/models"
	"restaurant/services"

	"github.com/sirupsen/logrus"
)

// maxAddQuantity caps a single add-to-cart action, as the menu screen does.
const maxAddQuantity = 10

// Reply is the shell's answer to one incoming message.
type Reply struct {
	Text string
	// DeleteInput asks the transport to remove the user's message, used for
	// passwords and card data.
	DeleteInput bool
}

// Shell routes chat messages to the auth, catalog and ledger services. It
// keeps no state besides the per-chat sessions and never talks to Telegram
// itself.
type Shell struct {
	auth     *services.Auth
	catalog  *services.Catalog
	ledger   *services.Ledger
	sessions *sessions
	log      logrus.FieldLogger
}

func NewShell(auth *services.Auth, catalog *services.Catalog, ledger *services.Ledger, idle time.Duration, log logrus.FieldLogger) *Shell {
	return &Shell{
		auth:     auth,
		catalog:  catalog,
		ledger:   ledger,
		sessions: newSessions(idle, nil),
		log:      log,
	}
}

// Handle processes one message from chatID.
func (s *Shell) Handle(ctx context.Context, chatID int64, text string) Reply {
	c, expired := s.sessions.get(chatID)
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "/") {
		c.form = nil
		reply := s.command(ctx, chatID, c, text)
		if expired {
			reply.Text = "Your previous session expired.\n\n" + reply.Text
		}
		return reply
	}
	if expired {
		return Reply{Text: "Your session expired. Send /login to continue."}
	}
	if c.form != nil {
		return s.fillForm(ctx, chatID, c, text)
	}
	return Reply{Text: "Send /help to see what I can do."}
}

func (s *Shell) command(ctx context.Context, chatID int64, c *chat, text string) Reply {
	fields := strings.Fields(text)
	cmd, args := fields[0], fields[1:]
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}

	switch cmd {
	case "/start", "/help":
		return Reply{Text: helpText(c.session)}
	case "/signup":
		if c.session.LoggedIn() {
			return Reply{Text: "You are already logged in. Send /logout first."}
		}
		return s.startForm(c, formSignup, "Sign up")
	case "/login":
		if c.session.LoggedIn() {
			return Reply{Text: fmt.Sprintf("You are already logged in as %s.", c.session.User().Username)}
		}
		return s.startForm(c, formLogin, "Login")
	case "/cancel":
		return Reply{Text: "Cancelled."}
	}

	if !c.session.LoggedIn() {
		return Reply{Text: "Please /login or /signup first."}
	}

	switch cmd {
	case "/logout":
		s.sessions.end(chatID)
		return Reply{Text: "Logged out. Your cart has been cleared."}
	case "/menu":
		return s.menu(ctx, chatID, strings.Join(args, " "))
	case "/categories":
		return s.categories(ctx, chatID)
	case "/add":
		return s.add(ctx, chatID, c.session, args)
	case "/cart":
		return Reply{Text: cartText(c.session.Cart())}
	case "/remove":
		return s.remove(c.session, args)
	case "/clear":
		c.session.Cart().Clear()
		return Reply{Text: "Cart cleared."}
	case "/checkout":
		cart := c.session.Cart()
		if cart.Empty() {
			return Reply{Text: userMessage(models.ErrEmptyCart) + " Send /menu to add items."}
		}
		r := s.startForm(c, formCheckout, "Checkout")
		r.Text = orderSummary(cart) + "\n\n" + r.Text
		return r
	}
	return Reply{Text: "Unknown command. Send /help to see what I can do."}
}

func (s *Shell) startForm(c *chat, kind formKind, title string) Reply {
	c.form = newForm(kind)
	return Reply{Text: fmt.Sprintf("%s (send /cancel to stop)\n\n%s", title, c.form.current().prompt)}
}

func (s *Shell) fillForm(ctx context.Context, chatID int64, c *chat, text string) Reply {
	f := c.form
	secret := f.current().secret
	f.answer(text)
	if !f.done() {
		return Reply{Text: f.current().prompt, DeleteInput: secret}
	}
	c.form = nil

	var reply Reply
	switch f.kind {
	case formSignup:
		reply = s.submitSignup(ctx, chatID, f.values)
	case formLogin:
		reply = s.submitLogin(ctx, chatID, c.session, f.values)
	case formCheckout:
		reply = s.submitCheckout(ctx, chatID, c.session, f.values)
	}
	reply.DeleteInput = secret
	return reply
}

func (s *Shell) submitSignup(ctx context.Context, chatID int64, v []string) Reply {
	_, err := s.auth.SignUp(ctx, services.SignupForm{
		Username:        v[0],
		Email:           v[1],
		Password:        v[2],
		ConfirmPassword: v[3],
	})
	if err != nil {
		return s.failure(chatID, err, "/signup")
	}
	return Reply{Text: "Account created successfully! Please /login."}
}

func (s *Shell) submitLogin(ctx context.Context, chatID int64, sess *services.Session, v []string) Reply {
	u, err := s.auth.LogIn(ctx, sess, services.LoginForm{Username: v[0], Password: v[1]})
	if err != nil {
		return s.failure(chatID, err, "/login")
	}
	return Reply{Text: fmt.Sprintf("Login successful! Welcome, %s.\nSend /menu to see what we serve.", u.Username)}
}

func (s *Shell) submitCheckout(ctx context.Context, chatID int64, sess *services.Session, v []string) Reply {
	receipt, err := s.ledger.Checkout(ctx, sess, services.CheckoutForm{
		CardNumber:     v[0],
		Expiry:         v[1],
		CVV:            v[2],
		CardholderName: v[3],
		Address:        v[4],
		Phone:          v[5],
	})
	if err != nil {
		return s.failure(chatID, err, "/checkout")
	}
	return Reply{Text: fmt.Sprintf(
		"Order successful! Your food is being prepared.\n\nOrder ID: #%d\nTotal Amount: %s\nEstimated Delivery Time: %s\n\nSend /menu to order again.",
		receipt.OrderID, receipt.Total, receipt.EstimatedDelivery,
	)}
}

func (s *Shell) menu(ctx context.Context, chatID int64, category string) Reply {
	items, err := s.catalog.ListAvailable(ctx, category)
	if err != nil {
		return s.failure(chatID, err, "")
	}
	if len(items) == 0 {
		if category != "" {
			return Reply{Text: fmt.Sprintf("Nothing in %q. Send /categories to see the list.", category)}
		}
		return Reply{Text: "The menu is empty right now."}
	}
	var b strings.Builder
	b.WriteString("Our Menu\n")
	current := ""
	for _, it := range items {
		if it.Category != current {
			current = it.Category
			fmt.Fprintf(&b, "\n%s\n", current)
		}
		fmt.Fprintf(&b, "#%d %s - %s\n", it.ID, it.Name, it.Price)
		if it.Description != "" {
			fmt.Fprintf(&b, "   %s\n", it.Description)
		}
	}
	fmt.Fprintf(&b, "\nAdd with /add <id> [quantity 1-%d].", maxAddQuantity)
	return Reply{Text: b.String()}
}

func (s *Shell) categories(ctx context.Context, chatID int64) Reply {
	cats, err := s.catalog.Categories(ctx)
	if err != nil {
		return s.failure(chatID, err, "")
	}
	if len(cats) == 0 {
		return Reply{Text: "The menu is empty right now."}
	}
	return Reply{Text: "Filter with /menu <category>:\n" + strings.Join(cats, "\n")}
}

func (s *Shell) add(ctx context.Context, chatID int64, sess *services.Session, args []string) Reply {
	if len(args) == 0 || len(args) > 2 {
		return Reply{Text: "Usage: /add <id> [quantity]"}
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil {
		return Reply{Text: "Usage: /add <id> [quantity]"}
	}
	qty := 1
	if len(args) == 2 {
		qty, err = strconv.Atoi(args[1])
		if err != nil || qty < 1 || qty > maxAddQuantity {
			return Reply{Text: fmt.Sprintf("Quantity must be between 1 and %d.", maxAddQuantity)}
		}
	}

	item, err := s.catalog.Item(ctx, id)
	if err != nil {
		return s.failure(chatID, err, "")
	}
	if err := sess.Cart().Add(*item, qty); err != nil {
		return s.failure(chatID, err, "")
	}
	return Reply{Text: fmt.Sprintf("Added %d %s to cart!", qty, item.Name)}
}

func (s *Shell) remove(sess *services.Session, args []string) Reply {
	if len(args) != 1 {
		return Reply{Text: "Usage: /remove <line number>"}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || !sess.Cart().Remove(n-1) {
		return Reply{Text: "No such line in your cart. Send /cart to see the line numbers."}
	}
	return Reply{Text: "Removed.\n\n" + cartText(sess.Cart())}
}

// failure converts err to a user-facing reply and logs anything unexpected.
func (s *Shell) failure(chatID int64, err error, retry string) Reply {
	if errors.Is(err, models.ErrStorageUnavailable) || !isUserError(err) {
		s.log.WithField("chat_id", chatID).WithError(err).Error("request failed")
	}
	text := userMessage(err)
	if retry != "" {
		text += "\nSend " + retry + " to try again."
	}
	return Reply{Text: text}
}

func isUserError(err error) bool {
	return models.IsValidation(err) ||
		errors.Is(err, models.ErrDuplicateCredential) ||
		errors.Is(err, models.ErrAuthenticationFailed) ||
		errors.Is(err, models.ErrEmptyCart) ||
		errors.Is(err, models.ErrMenuItemNotFound) ||
		errors.Is(err, models.ErrNotLoggedIn)
}

// userMessage is the text shown for err.
func userMessage(err error) string {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		msg := ve.Message
		if msg == "" {
			msg = "invalid input"
		}
		msg = strings.ToUpper(msg[:1]) + msg[1:]
		if len(ve.Fields) > 0 {
			msg += " (" + strings.Join(ve.Fields, ", ") + ")"
		}
		return msg + "."
	case errors.Is(err, models.ErrDuplicateCredential):
		return "Username or email already exists."
	case errors.Is(err, models.ErrAuthenticationFailed):
		return "Invalid username or password."
	case errors.Is(err, models.ErrEmptyCart):
		return "Your cart is empty!"
	case errors.Is(err, models.ErrMenuItemNotFound):
		return "That item is not on the menu."
	case errors.Is(err, models.ErrNotLoggedIn):
		return "Please /login first."
	case errors.Is(err, models.ErrStorageUnavailable):
		return "The service is temporarily unavailable. Please try again later."
	default:
		return "Something went wrong. Please try again."
	}
}

func helpText(sess *services.Session) string {
	if !sess.LoggedIn() {
		return "Restaurant Management System\nDelicious food at your fingertips!\n\n" +
			"/login - log in\n/signup - create an account"
	}
	return fmt.Sprintf("Welcome, %s!\n\n", sess.User().Username) +
		"/menu [category] - browse the menu\n" +
		"/categories - list categories\n" +
		"/add <id> [qty] - add an item to the cart\n" +
		"/cart - show the cart\n" +
		"/remove <n> - remove cart line n\n" +
		"/clear - empty the cart\n" +
		"/checkout - place the order\n" +
		"/logout - log out"
}

func cartText(cart *services.Cart) string {
	if cart.Empty() {
		return "Your cart is empty. Send /menu to add items!"
	}
	var b strings.Builder
	b.WriteString("Your Cart\n\n")
	for i, l := range cart.Lines() {
		fmt.Fprintf(&b, "%d. %s\n   %s each x %d = %s\n", i+1, l.Name, l.Price, l.Quantity, l.LineTotal())
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\n/checkout to order, /remove <n> to drop a line, /clear to empty.", cart.Total())
	return b.String()
}

func orderSummary(cart *services.Cart) string {
	var b strings.Builder
	b.WriteString("Order Summary\n")
	for _, l := range cart.Lines() {
		fmt.Fprintf(&b, "%s x %d = %s\n", l.Name, l.Quantity, l.LineTotal())
	}
	fmt.Fprintf(&b, "Total: %s", cart.Total())
	return b.String()
}
