package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethvoyager95/quickswap-core/internal/script"
)

// WorldCommands is the registry-bookkeeping subsystem: aliasing accounts,
// registering contracts, and inspecting the threaded state. Help reads the
// processor's routing table, so the catalog takes the processor it will be
// mounted on.
func WorldCommands(p *script.Processor) *script.Registry {
	r := script.NewRegistry()

	r.MustRegister(&script.Command{
		Name: "Alias",
		Doc:  "Bind an account alias to an address.",
		Args: []script.Arg{
			{Name: "name", Coerce: script.CoerceString},
			{Name: "address", Coerce: script.CoerceAddress},
		},
		Run: func(ctx context.Context, w *script.World, from string, args script.Args) (*script.World, error) {
			name := args.Text("name")
			addr := args.Address("address")
			next := w.WithAccount(name, addr)
			return next.LogAction(fmt.Sprintf("Aliased %s to %s", name, addr), nil), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "Contract",
		Doc:  "Register a deployed contract under a name.",
		Args: []script.Arg{
			{Name: "name", Coerce: script.CoerceString},
			{Name: "address", Coerce: script.CoerceAddress},
		},
		Run: func(ctx context.Context, w *script.World, from string, args script.Args) (*script.World, error) {
			name := args.Text("name")
			addr := args.Address("address")
			next := w.WithContract(name, addr)
			return next.LogAction(fmt.Sprintf("Registered contract %s at %s", name, addr), nil), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "Accounts",
		Doc:  "List the registered account aliases.",
		View: func(ctx context.Context, w *script.World, from string, args script.Args) (script.Value, error) {
			return registryValue(w.AccountNames(), w.Account), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "Contracts",
		Doc:  "List the registered contracts.",
		View: func(ctx context.Context, w *script.World, from string, args script.Args) (script.Value, error) {
			return registryValue(w.ContractNames(), w.Contract), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "History",
		Doc:  "List the action log in submission order.",
		View: func(ctx context.Context, w *script.World, from string, args script.Args) (script.Value, error) {
			actions := w.Actions()
			items := make([]script.Value, len(actions))
			for i, a := range actions {
				items[i] = script.NewString(a.Description)
			}
			return script.NewList(items...), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "Print",
		Doc:  "Write a message to the output sink.",
		Args: []script.Arg{{Name: "message", Coerce: script.CoerceString}},
		View: func(ctx context.Context, w *script.World, from string, args script.Args) (script.Value, error) {
			msg := args.Text("message")
			w.Printf("%s", msg)
			return script.NewString(msg), nil
		},
	})

	r.MustRegister(&script.Command{
		Name: "Help",
		Doc:  "Show the command catalog, optionally for one subsystem.",
		Args: []script.Arg{{Name: "subsystem", Coerce: script.CoerceString, Nullable: true}},
		View: func(ctx context.Context, w *script.World, from string, args script.Args) (script.Value, error) {
			if name, ok := args.Value("subsystem"); ok {
				reg, found := p.Registry(name.Text())
				if !found {
					return script.Value{}, script.InvocationFailure(nil, "no such subsystem %q", name.Text())
				}
				return script.NewString(helpFor(name.Text(), reg)), nil
			}
			var b strings.Builder
			for i, name := range p.Subsystems() {
				if i > 0 {
					b.WriteString("\n")
				}
				reg, _ := p.Registry(name)
				b.WriteString(helpFor(name, reg))
			}
			return script.NewString(b.String()), nil
		},
	})

	return r
}

func registryValue(names []string, resolve func(string) (string, bool)) script.Value {
	entries := make(map[string]script.Value, len(names))
	for _, name := range names {
		addr, _ := resolve(name)
		entries[name] = script.NewAddress(addr)
	}
	return script.NewMap(entries)
}

func helpFor(subsystem string, r *script.Registry) string {
	var b strings.Builder
	for i, cmd := range r.Commands() {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s", subsystem, cmd.Usage())
		if cmd.Doc != "" {
			fmt.Fprintf(&b, "  %s", cmd.Doc)
		}
	}
	return b.String()
}
