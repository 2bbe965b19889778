package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	public "github.com/quantfall/go-public"
)

var (
	flagSessionFile string
	flagDebug       bool

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func newClient() *public.Client {
	opts := []public.Option{public.WithDebug(flagDebug)}
	if flagSessionFile != "" {
		opts = append(opts, public.WithSessionFile(flagSessionFile))
	}
	if secret := os.Getenv("PUBLIC_SESSION_SECRET"); secret != "" {
		opts = append(opts, public.WithSessionSecret(secret))
	}
	c := public.NewClient(opts...)
	c.TwoFactorPrompt = promptTwoFactorCode
	return c
}

func main() {
	godotenv.Load()

	root := &cobra.Command{
		Use:           "public-cli",
		Short:         "Unofficial Public.com trading CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagSessionFile, "session-file", "", "path of the persisted session state")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable request logging")

	root.AddCommand(
		loginCmd(),
		portfolioCmd(),
		positionsCmd(),
		quoteCmd(),
		orderCmd(),
		ordersCmd(),
		cancelCmd(),
		historyCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			username := os.Getenv("PUBLIC_USERNAME")
			password := os.Getenv("PUBLIC_PASSWORD")
			if username == "" || password == "" {
				return fmt.Errorf("set PUBLIC_USERNAME and PUBLIC_PASSWORD (or put them in .env)")
			}
			client := newClient()
			if _, err := client.Login(public.LoginRequest{
				Username:   username,
				Password:   password,
				WaitFor2FA: true,
			}); err != nil {
				return err
			}
			number, err := client.GetAccountNumber()
			if err != nil {
				return err
			}
			fmt.Println(headerStyle.Render("Logged in"))
			printField("Account", number)
			return nil
		},
	}
}

func portfolioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Show the account snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			p, err := client.GetPortfolio()
			if err != nil {
				return err
			}
			fmt.Println(headerStyle.Render("Portfolio"))
			printField("Cash", p.Equity.Cash.String())
			printField("Stock", p.Equity.Stock.String())
			printField("Total", p.Equity.Total.String())
			printField("Buying power", p.BuyingPower.BuyingPower.String())
			return nil
		},
	}
}

func positionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "List open positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			positions, err := client.GetPositions()
			if err != nil {
				return err
			}
			fmt.Println(headerStyle.Render("Positions"))
			for _, pos := range positions {
				fmt.Printf("%s  %s shares  %s\n",
					valueStyle.Render(pos.Instrument.Symbol),
					pos.Quantity, pos.CurrentValue)
			}
			return nil
		},
	}
}

func quoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote SYMBOL",
		Short: "Show the last trade price for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			price, err := client.GetSymbolPrice(args[0])
			if err != nil {
				return err
			}
			printField(args[0], price.String())
			return nil
		},
	}
}

func orderCmd() *cobra.Command {
	var (
		side   string
		otype  string
		tif    string
		qty    string
		all    bool
		limit  string
		tip    string
		dryRun bool
		noAsk  bool
	)
	cmd := &cobra.Command{
		Use:   "order SYMBOL",
		Short: "Place an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := public.OrderRequest{
				Symbol:      args[0],
				Side:        public.OrderSide(side),
				Type:        public.OrderType(otype),
				TimeInForce: public.TimeInForce(tif),
				AllShares:   all,
				DryRun:      dryRun,
			}
			if qty != "" {
				q, err := decimal.NewFromString(qty)
				if err != nil {
					return fmt.Errorf("invalid quantity %q", qty)
				}
				req.Quantity = q
			}
			if limit != "" {
				l, err := decimal.NewFromString(limit)
				if err != nil {
					return fmt.Errorf("invalid limit price %q", limit)
				}
				req.LimitPrice = &l
			}
			if tip != "" {
				t, err := decimal.NewFromString(tip)
				if err != nil {
					return fmt.Errorf("invalid tip %q", tip)
				}
				req.Tip = &t
			}
			if !noAsk && !dryRun {
				ok, err := confirmOrder(args[0], side, qty, all)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("aborted")
					return nil
				}
			}
			client := newClient()
			result, err := client.PlaceOrder(req)
			if err != nil {
				return err
			}
			fmt.Println(headerStyle.Render("Order result"))
			printField("Order ID", result.OrderID)
			printField("Status", result.Status)
			printField("Success", fmt.Sprintf("%v", result.Success))
			if result.RejectionDetails != nil {
				printField("Rejected", result.RejectionDetails.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&side, "side", "buy", "buy or sell")
	cmd.Flags().StringVar(&otype, "type", "market", "market, limit or stop")
	cmd.Flags().StringVar(&tif, "tif", "day", "day, gtc, ioc or fok")
	cmd.Flags().StringVar(&qty, "qty", "", "quantity of shares")
	cmd.Flags().BoolVar(&all, "all", false, "sell the entire held quantity")
	cmd.Flags().StringVar(&limit, "limit", "", "limit price (required for limit orders)")
	cmd.Flags().StringVar(&tip, "tip", "", "optional tip amount")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "build the order without submitting it")
	cmd.Flags().BoolVar(&noAsk, "yes", false, "skip the confirmation prompt")
	return cmd
}

func ordersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List pending orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			orders, err := client.GetPendingOrders()
			if err != nil {
				return err
			}
			fmt.Println(headerStyle.Render("Pending orders"))
			for _, o := range orders {
				fmt.Printf("%s  %s %s %s  %s\n",
					o.OrderID, o.Side, o.Quantity, o.Instrument.Symbol, o.Status)
			}
			return nil
		},
	}
}

func cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ORDER_ID",
		Short: "Cancel a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			order, err := client.CancelOrder(args[0])
			if err != nil {
				return err
			}
			printField("Cancelled", order.OrderID)
			printField("Status", order.Status)
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var (
		date     string
		assets   []string
		types    []string
		statuses []string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show filtered account history",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			resp, err := client.GetAccountHistory(public.HistoryQuery{
				Date:             public.DateRange(date),
				AssetClasses:     assets,
				TransactionTypes: types,
				Statuses:         statuses,
			})
			if err != nil {
				return err
			}
			fmt.Println(headerStyle.Render("History"))
			for _, tx := range resp.Transactions {
				fmt.Printf("%s  %-10s %-8s %s  %s\n",
					tx.Timestamp, tx.Type, tx.Symbol, tx.NetAmount, tx.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "all", "all, current_month, last_month, this_year or last_year")
	cmd.Flags().StringSliceVar(&assets, "asset", nil, "asset class filter (stocks_and_etfs, options, bonds, crypto)")
	cmd.Flags().StringSliceVar(&types, "type", nil, "transaction type filter (buy, sell, deposit, ...)")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "status filter (completed, rejected, cancelled, pending)")
	return cmd
}

func printField(label, value string) {
	fmt.Printf("%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
}
