package catalog

// Category 상의/하의 등 최상위 의류 카테고리
// 사진 업로드는 카테고리가 아니라 별도 파이프라인으로 처리함
type Category string

const (
	CategoryFabric   Category = "fabric"
	CategoryJacket   Category = "jacket"
	CategoryVest     Category = "vest"
	CategoryTrousers Category = "trousers"
	CategoryShirt    Category = "shirt"
)

// DefaultGroup is the sentinel group key for options declared without a group.
const DefaultGroup = "default"

// Option is an immutable catalog entry. Never mutated at runtime.
type Option struct {
	ID       string `json:"id"`
	Group    string `json:"group,omitempty"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Image    string `json:"image,omitempty"`
}

// GroupKey returns the group key the option belongs to.
func (o Option) GroupKey() string {
	if o.Group == "" {
		return DefaultGroup
	}
	return o.Group
}

// Catalog is the read-only registry of selectable garment options.
// It is built once and injected into whatever needs it.
type Catalog struct {
	categories []Category
	options    map[Category][]Option
	defaults   map[Category]map[string]string // group key -> declared default option id
}

// New builds a catalog from declared tables. Options keep their declaration
// order; that order defines both group ordering and wire-payload ordering.
func New(categories []Category, options map[Category][]Option, defaults map[Category]map[string]string) *Catalog {
	return &Catalog{
		categories: categories,
		options:    options,
		defaults:   defaults,
	}
}

// Categories returns the categories in declaration order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// HasCategory reports whether the category is declared.
func (c *Catalog) HasCategory(category Category) bool {
	_, ok := c.options[category]
	return ok
}

// Options returns all declared options for a category in declaration order.
func (c *Catalog) Options(category Category) []Option {
	opts := c.options[category]
	out := make([]Option, len(opts))
	copy(out, opts)
	return out
}

// OptionByID returns the option with the given id within a category.
func (c *Catalog) OptionByID(category Category, id string) (Option, bool) {
	for _, opt := range c.options[category] {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// GroupsOf returns the distinct group labels declared for a category, in
// declaration order, deduplicated. Categories without declared groups
// yield the single sentinel key "default".
func (c *Catalog) GroupsOf(category Category) []string {
	seen := make(map[string]bool)
	var groups []string
	for _, opt := range c.options[category] {
		key := opt.GroupKey()
		if !seen[key] {
			seen[key] = true
			groups = append(groups, key)
		}
	}
	return groups
}

// groupOptions returns the options of one group in declaration order.
func (c *Catalog) groupOptions(category Category, group string) []Option {
	var out []Option
	for _, opt := range c.options[category] {
		if opt.GroupKey() == group {
			out = append(out, opt)
		}
	}
	return out
}

// DefaultSelectionFor resolves the default selection for a category,
// per group: the declared default id when it resolves to a real option,
// else the first catalog entry for that group, else the group is omitted.
// A declared-but-blank default also falls back to the first entry so a
// fresh session never renders an empty group.
func (c *Catalog) DefaultSelectionFor(category Category) map[string]Option {
	selection := make(map[string]Option)
	declared := c.defaults[category]

	for _, group := range c.GroupsOf(category) {
		opts := c.groupOptions(category, group)
		if len(opts) == 0 {
			continue
		}

		if declared != nil {
			if id, ok := declared[group]; ok && id != "" {
				if opt, found := c.OptionByID(category, id); found && opt.GroupKey() == group {
					selection[group] = opt
					continue
				}
			}
		}

		selection[group] = opts[0]
	}

	return selection
}
