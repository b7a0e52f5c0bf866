// Command storefront is a terminal client for the shop: browse the catalog,
// manage the cart, place orders and look after existing ones.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/safar/go-storefront/internal/api"
	"github.com/safar/go-storefront/internal/cart"
	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/goods"
	"github.com/safar/go-storefront/internal/logger"
	"github.com/safar/go-storefront/internal/notify"
	"github.com/safar/go-storefront/internal/store"
	"go.uber.org/zap"
)

// notifyBuffer bounds the notifications one command can queue for printing.
const notifyBuffer = 64

var verbose bool

func init() {
	flag.BoolVar(&verbose, "verbose", false, "Log at debug level")
	flag.BoolVar(&verbose, "v", false, "Log at debug level (shorthand)")
	flag.Usage = printUsage
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `storefront - shop client

USAGE:
    storefront [-v] <command> [options] [args]

CATALOG:
    goods [-query q] [-sort key] [-category c,...] [-min n] [-max n] [-discount] [-pages n]
    categories
    suggest <text>

CART:
    cart show [-date YYYY-MM-DD] [-interval HH:MM-HH:MM]
    cart add|toggle|inc|dec|drop <good-id>
    cart clear
    checkout -name .. -email .. -phone .. -address .. -date YYYY-MM-DD -interval .. [-comment ..] [-subscribe]

ORDERS:
    orders list
    orders view <order-id>
    orders edit <order-id> [-name ..] [-email ..] [-phone ..] [-address ..] [-date ..] [-interval ..] [-comment ..]
    orders delete <order-id> [-yes]

Sort keys: rating_asc, rating_desc, price_asc, price_desc.
Configuration is read from the environment and .env (STOREFRONT_API_KEY, STOREFRONT_STORAGE, ...).
`)
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()
	if flag.NArg() == 0 {
		printUsage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Load config: %v\n", err)
		return 1
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Create logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx, cfg, log, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Start: %v\n", err)
		return 1
	}
	defer a.close()

	err = a.dispatch(ctx, flag.Args())
	a.flushNotifications()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var reqErr *api.RequestError
		if verbose && errors.As(err, &reqErr) {
			fmt.Fprintf(os.Stderr, "Request: %s\n", reqErr.Detail())
		}
		return 1
	}
	return 0
}

type app struct {
	cfg   *config.Config
	log   *zap.Logger
	in    *bufio.Reader
	out   io.Writer
	notes *notify.Center
	shown <-chan notify.Notification
	kv    store.KV
	cart  *cart.Store

	client *api.Client
	goods  *goods.Cache
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger, in io.Reader, out io.Writer) (*app, error) {
	kv, err := store.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open cart storage: %w", err)
	}

	notes := notify.NewCenter(cfg.Notify.TTL, log)
	return &app{
		cfg:   cfg,
		log:   log,
		in:    bufio.NewReader(in),
		out:   out,
		notes: notes,
		shown: notes.Subscribe(notifyBuffer),
		kv:    kv,
		cart:  cart.NewStore(kv, cfg.Storage.CartKey, notes, log),
	}, nil
}

func (a *app) close() {
	if err := a.kv.Close(); err != nil {
		a.log.Warn("Close cart storage", zap.Error(err))
	}
}

// api builds the client on first use so cart-only commands work without an
// API key.
func (a *app) api() (*api.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	client, err := api.NewClient(a.cfg.API, a.log)
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}
	a.client = client
	a.goods = goods.NewCache(client, a.log)
	return client, nil
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "goods":
		return a.runGoods(ctx, rest)
	case "categories":
		return a.runCategories(ctx, rest)
	case "suggest":
		return a.runSuggest(ctx, rest)
	case "cart":
		return a.runCart(ctx, rest)
	case "checkout":
		return a.runCheckout(ctx, rest)
	case "orders":
		return a.runOrders(ctx, rest)
	case "help":
		printUsage()
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// flushNotifications prints everything the command emitted, including
// notifications whose TTL ran out during a slow command, and dismisses them.
func (a *app) flushNotifications() {
	for {
		select {
		case n := <-a.shown:
			marker := "i"
			switch n.Kind {
			case notify.Success:
				marker = "+"
			case notify.Error:
				marker = "!"
			}
			fmt.Fprintf(a.out, "[%s] %s\n", marker, n.Message)
			a.notes.Dismiss(n.ID)
		default:
			return
		}
	}
}
