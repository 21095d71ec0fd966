package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/wichananm65/gift-store-backend/internal/analytics"
	"github.com/wichananm65/gift-store-backend/internal/cart"
	"github.com/wichananm65/gift-store-backend/internal/client"
	"github.com/wichananm65/gift-store-backend/internal/logging"
)

var (
	syncServer   string
	syncCartFile string
	syncWatch    bool
	syncUsername string
	syncPassword string
	syncAddID    int
	syncAddQty   int
	syncAddTheme string
	syncAddText  string
	syncLogLevel string
	syncInterval time.Duration
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run the storefront client against a server",
	Long: `Bootstrap a storefront session against a running server, print the catalog,
the cart and a WhatsApp checkout link.

Examples:
  giftstore sync --server http://localhost:8080
  giftstore sync --add 1 --qty 2 --theme festa     # add to the saved cart
  giftstore sync --watch --user admin --password s3cret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncServer, "server", "http://localhost:8080", "Storefront API base URL")
	syncCmd.Flags().StringVar(&syncCartFile, "cart-file", "cart.json", "Where the local cart is kept")
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false, "Keep syncing until interrupted")
	syncCmd.Flags().DurationVar(&syncInterval, "print-every", 30*time.Second, "How often --watch prints the state")
	syncCmd.Flags().StringVar(&syncUsername, "user", "", "Admin username, enables analytics refresh")
	syncCmd.Flags().StringVar(&syncPassword, "password", "", "Admin password")
	syncCmd.Flags().IntVar(&syncAddID, "add", 0, "Product id to add to the cart")
	syncCmd.Flags().IntVar(&syncAddQty, "qty", 1, "Quantity for --add")
	syncCmd.Flags().StringVar(&syncAddTheme, "theme", "", "Theme for --add")
	syncCmd.Flags().StringVar(&syncAddText, "text", "", "Custom text for --add")
	syncCmd.Flags().StringVar(&syncLogLevel, "log-level", "warn", "Client log level")
}

func runSync(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logging.New(syncLogLevel, false)
	storage := client.NewFileStorage(syncCartFile).WithBackups(5, time.Hour)
	store := client.New(syncServer, client.WithStorage(storage), client.WithLogger(log))

	store.Bootstrap(ctx)
	if syncUsername != "" {
		if err := store.Login(ctx, syncUsername, syncPassword); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if err := store.RefreshAnalytics(ctx); err != nil {
			log.WithError(err).Warn("analytics refresh failed")
		}
	}

	if syncAddID > 0 {
		p, ok := store.Product(syncAddID)
		if !ok {
			return fmt.Errorf("product %d is not in the catalog", syncAddID)
		}
		if _, err := store.AddToCart(p, syncAddQty, syncAddText, syncAddTheme); err != nil {
			return err
		}
		id := p.ID
		if err := store.Track(ctx, analytics.AddToCart, "/produto/"+p.Slug, &id); err != nil {
			log.WithError(err).Debug("could not record add_to_cart")
		}
	}

	printState(out, store)
	if !syncWatch {
		return nil
	}

	stopSync, err := store.StartAutoSync(ctx)
	if err != nil {
		return err
	}
	defer stopSync()

	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			printState(out, store)
		}
	}
}

func printState(out io.Writer, store *client.Store) {
	st := store.State()
	fmt.Fprintf(out, "sync: %s %s (last %s)\n", st.SyncStatus, st.SyncMessage, st.LastSync.Format(time.RFC3339))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRODUCT\tCATEGORY\tPRICE")
	for _, p := range st.Products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\n", p.ID, p.Name, p.Category, p.Price)
	}
	w.Flush()

	for _, it := range st.CatalogItems {
		fmt.Fprintf(out, "section %q: %d products\n", it.Title, len(it.ProductIDs))
	}

	if len(st.Cart) > 0 {
		fmt.Fprintln(out, "\ncart:")
		for _, it := range st.Cart {
			fmt.Fprintf(out, "  %dx %s %s\n", it.Quantity, it.Name, cart.FormatBRL(it.LineTotal()))
		}
		fmt.Fprintf(out, "  subtotal %s\n", cart.FormatBRL(store.CartSubtotal()))
		link, err := store.CheckoutLink()
		switch {
		case errors.Is(err, client.ErrNoWhatsapp):
			fmt.Fprintln(out, "  checkout: whatsapp number not configured")
		case err == nil:
			fmt.Fprintln(out, "  checkout:", link)
		}
	}

	if st.Analytics != nil {
		fmt.Fprintf(out, "\nlast %d days: %d page views, %d checkouts, conversion %.2f%%\n",
			st.Analytics.Days, st.Analytics.PageViews, st.Analytics.Checkouts, st.Analytics.ConversionRate*100)
	}
}
