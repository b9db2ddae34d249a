package console

import (
	"github.com/spf13/cobra"
)

func newRawCmd(s *session) *cobra.Command {
	var body string
	cmd := &cobra.Command{
		Use:   "raw METHOD PATH",
		Short: "Send an arbitrary request to the API and print the response",
		Long: "raw sends METHOD PATH relative to the base URL. The body is sent as JSON for methods other than GET and HEAD.\n" +
			"The response is printed whatever its status.",
		Example: "  productsctl raw GET /products\n  productsctl raw PUT /products/1 --body '{\"price\": 9.5}'",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := s.client.Raw(cmd.Context(), args[0], args[1], body)
			if err != nil {
				return err
			}
			return writeRaw(cmd.OutOrStdout(), s.output, resp)
		},
	}
	cmd.Flags().StringVarP(&body, "body", "d", "", "request body, usually JSON")
	return cmd
}
