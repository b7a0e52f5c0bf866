package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/safar/go-storefront/internal/format"
	"github.com/safar/go-storefront/internal/orders"
)

func (a *app) orderManager() (*orders.Manager, error) {
	client, err := a.api()
	if err != nil {
		return nil, err
	}
	return orders.NewManager(client, a.goods, a.notes, a.log), nil
}

func (a *app) runOrders(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	m, err := a.orderManager()
	if err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return a.listOrders(ctx, m)
	case "view":
		return a.viewOrder(ctx, m, rest)
	case "edit":
		return a.editOrder(ctx, m, rest)
	case "delete":
		return a.deleteOrder(ctx, m, rest)
	default:
		return fmt.Errorf("unknown orders command %q", sub)
	}
}

func (a *app) listOrders(ctx context.Context, m *orders.Manager) error {
	if err := m.Load(ctx); err != nil {
		return err
	}

	summaries := m.Summaries()
	if len(summaries) == 0 {
		fmt.Fprintln(a.out, orders.MsgNoOrders)
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "№\tID\tДата\tТовары\tСтоимость\tДоставка\t")
	for _, s := range summaries {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t\n", s.Seq, s.ID, s.Created, s.Goods.Short, format.Rubles(s.Total), s.Delivery)
	}
	return w.Flush()
}

func (a *app) viewOrder(ctx context.Context, m *orders.Manager, args []string) error {
	id, err := parseID(args, "order")
	if err != nil {
		return err
	}
	d, err := m.View(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Просмотр заказа #%d\n", d.Order.ID)
	for _, f := range d.Fields() {
		fmt.Fprintf(a.out, "%s: %s\n", f.Label, f.Value)
	}
	return nil
}

func (a *app) editOrder(ctx context.Context, m *orders.Manager, args []string) error {
	id, err := parseID(args, "order")
	if err != nil {
		return err
	}

	now := time.Now()
	if err := m.Load(ctx); err != nil {
		return err
	}
	form, err := m.BeginEdit(ctx, id, now)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("orders edit", flag.ContinueOnError)
	fs.StringVar(&form.FullName, "name", form.FullName, "Full name")
	fs.StringVar(&form.Email, "email", form.Email, "Email")
	fs.StringVar(&form.Phone, "phone", form.Phone, "Phone")
	fs.StringVar(&form.DeliveryAddress, "address", form.DeliveryAddress, "Delivery address")
	fs.StringVar(&form.DeliveryDate, "date", form.DeliveryDate, "Delivery date, YYYY-MM-DD, not before "+form.MinDate)
	fs.StringVar(&form.DeliveryInterval, "interval", form.DeliveryInterval, "Delivery interval")
	fs.StringVar(&form.Comment, "comment", form.Comment, "Comment")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	order, err := m.SaveEdit(ctx, *form, now)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Заказ #%d обновлен: %s\n", order.ID, format.Timestamp(order.UpdatedAt.Time))
	return nil
}

func (a *app) deleteOrder(ctx context.Context, m *orders.Manager, args []string) error {
	id, err := parseID(args, "order")
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("orders delete", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Do not ask for confirmation")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	if err := m.Load(ctx); err != nil {
		return err
	}
	if err := m.RequestDelete(id); err != nil {
		return err
	}

	if !*yes && !a.confirm(fmt.Sprintf("Удалить заказ #%d? [y/N] ", id)) {
		m.CancelDelete()
		fmt.Fprintln(a.out, "Отменено")
		return nil
	}
	return m.ConfirmDelete(ctx)
}

func (a *app) confirm(prompt string) bool {
	fmt.Fprint(a.out, prompt)
	answer, _ := a.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "д", "да":
		return true
	}
	return false
}
