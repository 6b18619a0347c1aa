package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f3rmion/pokedex/internal/catalog"
	"github.com/f3rmion/pokedex/internal/render"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List Pokémon with filters and sorting",
	Long: `List one page of the Pokédex.

Filters combine: a Pokémon is listed only when it matches all of them.
--where takes a CEL expression over id, name, types, total, hp, attack,
defense, special_attack, special_defense, speed, height, weight and
base_experience.

Examples:
  pokedex list --page 2
  pokedex list --type fire,dragon --sort stats --order desc
  pokedex list --min 500 --limit 10
  pokedex list --where 'speed > 100 && "electric" in types'`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search Pokémon by name or number",
	Long: fmt.Sprintf(`Search the first %d Pokémon for names or numbers containing term.
At most %d results are shown.`, catalog.SearchScope, catalog.SearchLimit),
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)

	f := listCmd.Flags()
	f.Int("page", 1, "page number")
	f.Int("limit", 0, "results per page (default from config)")
	f.String("search", "", "name or number contains")
	f.StringSlice("type", nil, "has any of these types")
	f.Int("min", catalog.DefaultMinStats, "minimum total base stats")
	f.Int("max", catalog.DefaultMaxStats, "maximum total base stats")
	f.String("sort", catalog.SortByID, "sort by "+strings.Join(catalog.SortKeys, ", "))
	f.String("order", catalog.OrderAsc, "asc or desc")
	f.String("where", "", "CEL filter expression")
}

func runList(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.Catalog.PageSize
	}
	if limit > catalog.MaxPageSize {
		return fmt.Errorf("--limit must be at most %d", catalog.MaxPageSize)
	}

	f, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.catalog.Query(cmd.Context(), f, page, limit)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), render.List(result, -1))
	return nil
}

func filterFromFlags(cmd *cobra.Command) (catalog.Filter, error) {
	flags := cmd.Flags()
	f := catalog.DefaultFilter()
	f.Search, _ = flags.GetString("search")
	f.MinStats, _ = flags.GetInt("min")
	f.MaxStats, _ = flags.GetInt("max")
	f.SortBy, _ = flags.GetString("sort")
	f.Order, _ = flags.GetString("order")
	f.Expr, _ = flags.GetString("where")

	types, _ := flags.GetStringSlice("type")
	for _, t := range types {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			f.Types = append(f.Types, t)
		}
	}

	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	term := args[0]
	if len([]rune(term)) < catalog.MinSearchLength {
		return fmt.Errorf("search term must be at least %d characters", catalog.MinSearchLength)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	records, err := a.catalog.Search(cmd.Context(), term)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintf(out, "No Pokémon match %q\n", term)
		return nil
	}
	fmt.Fprint(out, render.List(catalog.Paginate(records, 1, len(records)), -1))
	return nil
}
