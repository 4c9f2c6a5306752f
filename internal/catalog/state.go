package catalog

// Mode names the selection state of a FilterState.
type Mode string

const (
	ModeNoFilter         Mode = "no_filter"
	ModeCategorySelected Mode = "category_selected"
	ModeLocationSelected Mode = "location_selected"
)

// Mode reports which selection is active.
func (s FilterState) Mode() Mode {
	switch {
	case s.SelectedCategory != nil:
		return ModeCategorySelected
	case s.SelectedLocation != nil:
		return ModeLocationSelected
	default:
		return ModeNoFilter
	}
}

// SelectCategory activates a category filter and clears any location filter.
// The visible input text becomes the category's display name; the search term
// is left alone. A blank value clears the selection.
func (s FilterState) SelectCategory(raw string) FilterState {
	if raw == "" {
		return s.ClearSelection()
	}
	value := raw
	s.SelectedCategory = &value
	s.SelectedLocation = nil
	s.InputText = CategoryDisplayName(raw)
	return s
}

// SelectLocation mirrors SelectCategory for areas.
func (s FilterState) SelectLocation(raw string) FilterState {
	if raw == "" {
		return s.ClearSelection()
	}
	value := raw
	s.SelectedLocation = &value
	s.SelectedCategory = nil
	s.InputText = LocationDisplayName(raw)
	return s
}

// ClearSelection drops both the category and the location filter.
func (s FilterState) ClearSelection() FilterState {
	s.SelectedCategory = nil
	s.SelectedLocation = nil
	return s
}

// Type records free text typed by the user. An active filter survives only
// while the text still contains its display name, ignoring case.
func (s FilterState) Type(text string) FilterState {
	s.InputText = text
	s.SearchTerm = text

	if s.SelectedCategory != nil && !containsFold(text, CategoryDisplayName(*s.SelectedCategory)) {
		s.SelectedCategory = nil
	}
	if s.SelectedLocation != nil && !containsFold(text, LocationDisplayName(*s.SelectedLocation)) {
		s.SelectedLocation = nil
	}
	return s
}
