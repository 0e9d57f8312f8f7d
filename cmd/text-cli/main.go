package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/heysubinoy/pyaztext/internal/api"
	"github.com/heysubinoy/pyaztext/internal/store"
	"github.com/heysubinoy/pyaztext/internal/textfile"
	"github.com/heysubinoy/pyaztext/internal/usertext"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

type cli struct {
	addr    string
	fire    bool
	section string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	defaultAddr := os.Getenv("PYAZTEXT_ADDR")
	if defaultAddr == "" {
		defaultAddr = "localhost:9090"
	}

	root := &cobra.Command{
		Use:           "text-cli",
		Short:         "Read and write hierarchical user text on a textd node",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&c.addr, "addr", defaultAddr, "textd gRPC address (env PYAZTEXT_ADDR)")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 5*time.Second, "request timeout")

	root.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print the value of a key",
			Args:  cobra.ExactArgs(1),
			RunE: c.call(api.MethodGet, func(args []string) map[string]any {
				return map[string]any{"key": args[0]}
			}, printGet),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List every key, value and section",
			Args:  cobra.NoArgs,
			RunE:  c.call(api.MethodList, nil, printList),
		},
		c.gated(&cobra.Command{
			Use:   "set <key> <value> [<key> <value>...]",
			Short: "Set one or more keys",
			Args:  pairArgs,
			RunE: c.call(api.MethodSet, func(args []string) map[string]any {
				keys, values := splitPairs(args)
				return map[string]any{"keys": api.StringList(keys), "values": api.StringList(values), "fire": c.fire}
			}, printResult),
		}),
		c.gated(&cobra.Command{
			Use:   "set-section <section> <entry> <value> [<entry> <value>...]",
			Short: "Set entries of one section",
			Args: func(cmd *cobra.Command, args []string) error {
				if len(args) < 1 {
					return fmt.Errorf("section is required")
				}
				return pairArgs(cmd, args[1:])
			},
			RunE: c.call(api.MethodSetSection, func(args []string) map[string]any {
				entries, values := splitPairs(args[1:])
				return map[string]any{
					"section": args[0],
					"entries": api.StringList(entries),
					"values":  api.StringList(values),
					"fire":    c.fire,
				}
			}, printResult),
		}),
		c.sectioned(&cobra.Command{
			Use:   "section [entries...]",
			Short: "Query entries by section, by entry name, or both",
			RunE: c.call(api.MethodGetBySection, func(args []string) map[string]any {
				return map[string]any{"section": c.section, "entries": api.StringList(args)}
			}, printSection),
		}),
		c.gated(&cobra.Command{
			Use:   "delete <key>...",
			Short: "Delete keys",
			Args:  cobra.MinimumNArgs(1),
			RunE: c.call(api.MethodDelete, func(args []string) map[string]any {
				return map[string]any{"keys": api.StringList(args), "fire": c.fire}
			}, printResult),
		}),
		c.gated(c.sectioned(&cobra.Command{
			Use:   "delete-section [entries...]",
			Short: "Delete a section, named entries of a section, or entries across sections",
			RunE: c.call(api.MethodDeleteSection, func(args []string) map[string]any {
				return map[string]any{"section": c.section, "entries": api.StringList(args), "fire": c.fire}
			}, printResult),
		})),
		c.gated(&cobra.Command{
			Use:   "export <file>",
			Short: "Export all user text to a .csv or .txt file",
			Args:  cobra.ExactArgs(1),
			RunE:  c.export,
		}),
		c.gated(&cobra.Command{
			Use:   "import <file>",
			Short: "Import user text from a .csv or .txt file",
			Args:  cobra.ExactArgs(1),
			RunE:  c.importFile,
		}),
	)
	return root
}

func (c *cli) gated(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().BoolVar(&c.fire, "fire", false, "apply the change; without it only a preview is printed")
	return cmd
}

func (c *cli) sectioned(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().StringVarP(&c.section, "section", "s", "", "section name")
	return cmd
}

func pairArgs(_ *cobra.Command, args []string) error {
	if len(args) == 0 || len(args)%2 != 0 {
		return fmt.Errorf("expected name/value pairs, got %d argument(s)", len(args))
	}
	return nil
}

func splitPairs(args []string) (names, values []string) {
	for i := 0; i+1 < len(args); i += 2 {
		names = append(names, args[i])
		values = append(values, args[i+1])
	}
	return names, values
}

func (c *cli) connect(ctx context.Context, fn func(context.Context, *api.TextServiceClient) error) error {
	conn, err := grpc.NewClient("passthrough:///"+c.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return fn(ctx, api.NewTextServiceClient(conn))
}

func (c *cli) call(method string, request func([]string) map[string]any, print func(*cobra.Command, *structpb.Struct) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		var fields map[string]any
		if request != nil {
			fields = request(args)
		}
		return c.connect(cmd.Context(), func(ctx context.Context, client *api.TextServiceClient) error {
			resp, err := client.Call(ctx, method, fields)
			if err != nil {
				return fmt.Errorf("%s failed: %w", strings.ToLower(method), err)
			}
			return print(cmd, resp)
		})
	}
}

// export pulls the export text and writes it through a local store so the
// file checks and the fire gate match textd's own file handling.
func (c *cli) export(cmd *cobra.Command, args []string) error {
	return c.connect(cmd.Context(), func(ctx context.Context, client *api.TextServiceClient) error {
		resp, err := client.Call(ctx, api.MethodExport, nil)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		local := usertext.New(store.NewMemStore())
		if _, failed := local.Import(api.StringField(resp, "text")); len(failed) > 0 {
			return fmt.Errorf("export failed: %d line(s) did not parse", len(failed))
		}
		res, err := textfile.Export(local, args[0], c.fire)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Summary)
		return nil
	})
}

func (c *cli) importFile(cmd *cobra.Command, args []string) error {
	path := args[0]
	if err := textfile.Check(path); err != nil {
		return err
	}
	if !c.fire {
		fmt.Fprintln(cmd.OutOrStdout(), "Ready to import.")
		return nil
	}
	text, err := textfile.Read(path)
	if err != nil {
		return err
	}
	return c.call(api.MethodImport, func([]string) map[string]any {
		return map[string]any{"text": text, "fire": true}
	}, printResult)(cmd, args)
}

func printGet(cmd *cobra.Command, resp *structpb.Struct) error {
	if !api.BoolField(resp, "found") {
		return fmt.Errorf("key not found")
	}
	fmt.Fprintln(cmd.OutOrStdout(), api.StringField(resp, "value"))
	return nil
}

func printList(cmd *cobra.Command, resp *structpb.Struct) error {
	keys, values := api.ListField(resp, "keys"), api.ListField(resp, "values")
	for i := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", keys[i], values[i])
	}
	if sections := api.ListField(resp, "sections"); len(sections) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "sections: %s\n", strings.Join(sections, ", "))
	}
	return nil
}

func printSection(cmd *cobra.Command, resp *structpb.Struct) error {
	keys, values := api.ListField(resp, "keys"), api.ListField(resp, "values")
	for i := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", keys[i], values[i])
	}
	fmt.Fprintln(cmd.OutOrStdout(), api.StringField(resp, "summary"))
	return nil
}

func printResult(cmd *cobra.Command, resp *structpb.Struct) error {
	fmt.Fprintln(cmd.OutOrStdout(), api.StringField(resp, "summary"))
	for _, line := range api.ListField(resp, "failed") {
		fmt.Fprintf(cmd.OutOrStdout(), "  failed: %s\n", line)
	}
	return nil
}
