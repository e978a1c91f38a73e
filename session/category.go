package session

// Category classifies what a user is contacting support about. The raw value
// doubles as the inline-button callback token.
type Category string

const (
	CategorySupport     Category = "support"
	CategoryPartnership Category = "partnership"
	CategoryOther       Category = "other"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategorySupport, CategoryPartnership, CategoryOther}
}

// ParseCategory maps a callback token to a Category.
func ParseCategory(token string) (Category, bool) {
	switch Category(token) {
	case CategorySupport, CategoryPartnership, CategoryOther:
		return Category(token), true
	}
	return "", false
}

// Label returns the operator-facing name of the category.
func (c Category) Label() string {
	switch c {
	case CategorySupport:
		return "Technical Support"
	case CategoryPartnership:
		return "Partnership Request"
	case CategoryOther:
		return "Something Else"
	}
	return string(c)
}
