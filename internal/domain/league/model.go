package league

import "fmt"

// League is a competition run by the association.
type League struct {
	ID          string
	Name        string
	CountryCode string
	Season      string
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Season == "" {
		return fmt.Errorf("league season is required")
	}

	return nil
}
