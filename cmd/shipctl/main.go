package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/shipping/internal/gateway"
	"github.com/danmuck/shipping/internal/observability"
	"github.com/danmuck/shipping/internal/shipping"
	"github.com/danmuck/shipping/internal/shipping/fedex"
	"github.com/danmuck/shipping/internal/transport"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "shipctl: %v\n", err)
		os.Exit(1)
	}
}

// cli carries the persistent flags and the loaded runtime pieces.
type cli struct {
	out        io.Writer
	configPath string
	debug      bool

	cfg    config
	client *fedex.Client
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}
	cmd := &cobra.Command{
		Use:           "shipctl",
		Short:         "FedEx rates, labels and service lookups",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return c.setup()
		},
	}
	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "path to shipctl TOML config")
	cmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		c.priceCmd("price", "List rate for a shipment", (*fedex.Client).Price),
		c.priceCmd("discount-price", "Account discounted rate for a shipment", (*fedex.Client).DiscountPrice),
		c.labelCmd(),
		c.returnLabelCmd(),
		c.voidCmd(),
		c.servicesCmd("services", "List ground and express services for a shipment", (*fedex.Client).AvailableServices),
		c.servicesCmd("express-services", "List express service availability between two zips", (*fedex.Client).ExpressServiceAvailability),
		c.registerCmd(),
		c.serveCmd(),
	)
	return cmd
}

func (c *cli) setup() error {
	observability.InitLogger("shipctl")
	if c.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	t, err := transport.NewHTTP(cfg.HTTP)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.client = fedex.NewClient(t)
	return nil
}

type rateFunc func(*fedex.Client, context.Context, shipping.Account, shipping.Request) (float64, error)

func (c *cli) priceCmd(use, short string, rate rateFunc) *cobra.Command {
	var requestPath string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := loadRequest(requestPath)
			if err != nil {
				return err
			}
			charge, err := rate(c.client, cmd.Context(), c.cfg.Account, req)
			if err != nil {
				return err
			}
			return c.print(map[string]any{"net_charge": charge})
		},
	}
	requestFlag(cmd, &requestPath)
	return cmd
}

func (c *cli) labelCmd() *cobra.Command {
	var requestPath, outPath string
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Create a shipment and save its label image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := loadRequest(requestPath)
			if err != nil {
				return err
			}
			label, err := c.client.Label(cmd.Context(), c.cfg.Account, req)
			if err != nil {
				return err
			}
			if outPath != "" {
				if err := writeLabel(outPath, label); err != nil {
					return err
				}
			}
			return c.print(map[string]any{"tracking_number": label.TrackingNumber(), "image_path": outPath})
		},
	}
	requestFlag(cmd, &requestPath)
	cmd.Flags().StringVar(&outPath, "out", "", "file to write the decoded label image to")
	return cmd
}

func writeLabel(path string, label fedex.Label) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create label file: %w", err)
	}
	if err := label.WriteImage(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write label file: %w", err)
	}
	return f.Close()
}

func (c *cli) returnLabelCmd() *cobra.Command {
	var requestPath string
	cmd := &cobra.Command{
		Use:   "return-label",
		Short: "Request an emailed return label",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := loadRequest(requestPath)
			if err != nil {
				return err
			}
			label, err := c.client.ReturnLabel(cmd.Context(), c.cfg.Account, req)
			if err != nil {
				return err
			}
			return c.print(map[string]any{
				"url":             label.URL(),
				"user_id":         label.UserID(),
				"password":        label.Password(),
				"tracking_number": label.TrackingNumber(),
			})
		},
	}
	requestFlag(cmd, &requestPath)
	return cmd
}

func (c *cli) voidCmd() *cobra.Command {
	var requestPath string
	cmd := &cobra.Command{
		Use:   "void <tracking-number>",
		Short: "Cancel a shipment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(requestPath)
			if err != nil {
				return err
			}
			if err := c.client.Void(cmd.Context(), c.cfg.Account, req, args[0]); err != nil {
				return err
			}
			return c.print(map[string]any{"status": "voided", "tracking_number": args[0]})
		},
	}
	requestFlag(cmd, &requestPath)
	return cmd
}

type servicesFunc func(*fedex.Client, context.Context, shipping.Account, shipping.Request) ([]shipping.ServiceAvailability, error)

func (c *cli) servicesCmd(use, short string, list servicesFunc) *cobra.Command {
	var requestPath string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := loadRequest(requestPath)
			if err != nil {
				return err
			}
			services, err := list(c.client, cmd.Context(), c.cfg.Account, req)
			if err != nil {
				return err
			}
			return c.print(map[string]any{"services": services})
		},
	}
	requestFlag(cmd, &requestPath)
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var requestPath string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Subscribe the account and print the issued meter number",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := loadRequest(requestPath)
			if err != nil {
				return err
			}
			meter, err := c.client.Register(cmd.Context(), c.cfg.Account, req)
			if err != nil {
				return err
			}
			return c.print(map[string]any{"meter_number": meter})
		},
	}
	requestFlag(cmd, &requestPath)
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON gateway",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return gateway.New(c.cfg.Gateway, c.client, c.cfg.Account).Run(ctx)
		},
	}
}

func requestFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVar(dst, "request", "", "TOML shipment request file")
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
