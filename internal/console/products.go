package console

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abgdnv/productsctl/internal/product/model"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errAtLeastOneField = errors.New("at least one of --name, --price or --stock is required")

func newListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := s.client.List(cmd.Context())
			if err != nil {
				return err
			}
			return writeProducts(cmd.OutOrStdout(), s.output, products)
		},
	}
}

func newGetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID [ID...]",
		Short: "Show one or more products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			products := make([]model.Product, len(ids))
			g, ctx := errgroup.WithContext(cmd.Context())
			for i, id := range ids {
				g.Go(func() error {
					p, err := s.client.Get(ctx, id)
					if err != nil {
						return fmt.Errorf("product %d: %w", id, err)
					}
					products[i] = *p
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if len(products) == 1 {
				return writeProduct(cmd.OutOrStdout(), s.output, &products[0])
			}
			return writeProducts(cmd.OutOrStdout(), s.output, products)
		},
	}
}

func newCreateCmd(s *session) *cobra.Command {
	var (
		name  string
		price float64
		stock int64
	)
	cmd := &cobra.Command{
		Use:   "create --name NAME --price PRICE --stock STOCK",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := model.ProductCreate{Name: name, Price: price, Stock: stock}
			if err := checkName(input.Name); err != nil {
				return err
			}
			if err := checkPrice(input.Price); err != nil {
				return err
			}
			if err := checkStock(input.Stock); err != nil {
				return err
			}

			created, err := s.client.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			s.logger.InfoContext(cmd.Context(), "Product created", "ID", created.ID)
			if err := writeProduct(cmd.OutOrStdout(), s.output, created); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Product created with ID %d\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().Float64Var(&price, "price", 0, "unit price, greater than 0")
	cmd.Flags().Int64Var(&stock, "stock", 0, "units in stock, 0 or more")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("stock")
	return cmd
}

func newUpdateCmd(s *session) *cobra.Command {
	var (
		name  string
		price float64
		stock int64
	)
	cmd := &cobra.Command{
		Use:   "update ID [--name NAME] [--price PRICE] [--stock STOCK]",
		Short: "Change some fields of a product",
		Long:  "Only the flags given on the command line are sent; the other fields keep their values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch model.ProductUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				if err := checkName(name); err != nil {
					return err
				}
				patch.Name = &name
			}
			if flags.Changed("price") {
				if err := checkPrice(price); err != nil {
					return err
				}
				patch.Price = &price
			}
			if flags.Changed("stock") {
				if err := checkStock(stock); err != nil {
					return err
				}
				patch.Stock = &stock
			}
			if patch.IsEmpty() {
				return errAtLeastOneField
			}

			updated, err := s.client.Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			s.logger.InfoContext(cmd.Context(), "Product updated", "ID", updated.ID)
			if err := writeProduct(cmd.OutOrStdout(), s.output, updated); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Product %d updated\n", updated.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new product name")
	cmd.Flags().Float64Var(&price, "price", 0, "new unit price, greater than 0")
	cmd.Flags().Int64Var(&stock, "stock", 0, "new stock, 0 or more")
	return cmd
}

func newDeleteCmd(s *session) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Delete product %d? [y/N] ", id)
				if !confirmed(bufio.NewReader(cmd.InOrStdin())) {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
					return nil
				}
			}

			result, err := s.client.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			s.logger.InfoContext(cmd.Context(), "Product deleted", "ID", id)
			return writeMessage(cmd.OutOrStdout(), s.output, result)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// confirmed reads one line and accepts y or yes in any case.
func confirmed(r *bufio.Reader) bool {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product ID %q: must be an integer", arg)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name must not be blank")
	}
	return nil
}

func checkPrice(price float64) error {
	if price <= 0 {
		return fmt.Errorf("price must be greater than 0, got %v", price)
	}
	return nil
}

func checkStock(stock int64) error {
	if stock < 0 {
		return fmt.Errorf("stock must be 0 or more, got %d", stock)
	}
	return nil
}
