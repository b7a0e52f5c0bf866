package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/safar/go-storefront/internal/cart"
	"github.com/safar/go-storefront/internal/format"
	"github.com/safar/go-storefront/internal/validation"
)

func parseID(args []string, what string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s id is required", what)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, args[0])
	}
	return id, nil
}

func (a *app) runCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	sub, rest := args[0], args[1:]

	if sub == "show" {
		return a.showCart(ctx, rest)
	}
	if sub == "clear" {
		if err := a.cart.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Корзина очищена")
		return nil
	}

	id, err := parseID(rest, "good")
	if err != nil {
		return err
	}
	switch sub {
	case "add", "inc":
		err = a.cart.Increment(ctx, id)
	case "toggle":
		_, err = a.cart.Toggle(ctx, id)
	case "dec":
		err = a.cart.Decrement(ctx, id)
	case "drop":
		if !a.cart.Contains(ctx, id) {
			return fmt.Errorf("good %d is not in the cart", id)
		}
		err = a.cart.RemoveAll(ctx, id)
	default:
		return fmt.Errorf("unknown cart command %q", sub)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "В корзине: %d\n", a.cart.Count(ctx))
	return nil
}

func (a *app) checkout() (*cart.Checkout, error) {
	client, err := a.api()
	if err != nil {
		return nil, err
	}
	return cart.NewCheckout(a.cart, a.goods, client, a.notes, a.log), nil
}

func (a *app) showCart(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cart show", flag.ContinueOnError)
	date := fs.String("date", "", "Delivery date, YYYY-MM-DD")
	interval := fs.String("interval", "", "Delivery interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if a.cart.Count(ctx) == 0 {
		fmt.Fprintln(a.out, "Корзина пуста")
		return nil
	}

	co, err := a.checkout()
	if err != nil {
		return err
	}
	v, err := co.Load(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tТовар\tЦена\tКол-во\tСумма\t")
	for _, l := range v.Lines {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t\n", l.Good.ID, l.Good.Name, priceLabel(l.Good), l.Quantity, format.Rubles(l.Subtotal()))
	}
	w.Flush()

	delivery := cart.DeliveryCost(*date, *interval)
	fmt.Fprintf(a.out, "Товары: %s\nДоставка: %s\nИтого: %s\n",
		format.Rubles(v.GoodsTotal), format.Rubles(delivery), format.Rubles(v.Total(delivery)))
	return nil
}

func (a *app) runCheckout(ctx context.Context, args []string) error {
	now := time.Now()
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	var form cart.OrderForm
	fs.StringVar(&form.FullName, "name", "", "Full name")
	fs.StringVar(&form.Email, "email", "", "Email")
	fs.StringVar(&form.Phone, "phone", "", "Phone")
	fs.StringVar(&form.DeliveryAddress, "address", "", "Delivery address")
	fs.StringVar(&form.DeliveryDate, "date", validation.MinDeliveryDate(now).Format(format.InputDateLayout), "Delivery date, YYYY-MM-DD")
	fs.StringVar(&form.DeliveryInterval, "interval", "", "Delivery interval, e.g. 08:00-12:00")
	fs.StringVar(&form.Comment, "comment", "", "Comment")
	fs.BoolVar(&form.Subscribe, "subscribe", false, "Subscribe to the newsletter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	co, err := a.checkout()
	if err != nil {
		return err
	}
	order, err := co.Submit(ctx, form, now)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Заказ #%d\n", order.ID)
	return nil
}
