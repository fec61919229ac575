package types

// EntityKind discriminates Person from Organization wherever an author,
// editor, or publisher can be either.
type EntityKind string

const (
	KindPerson       EntityKind = "Person"
	KindOrganization EntityKind = "Organization"
)

// Person holds the attributes stored for a person node. Name is required;
// everything else is optional and may be filled by enrichment.
type Person struct {
	Name        string `json:"name,omitempty"`
	Address     string `json:"address,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
	BirthDate   string `json:"birthDate,omitempty"`
	BirthPlace  string `json:"birthPlace,omitempty"`
	DeathDate   string `json:"deathDate,omitempty"`
	DeathPlace  string `json:"deathPlace,omitempty"`
	Email       string `json:"email,omitempty"`
	FamilyName  string `json:"familyName,omitempty"`
	Gender      string `json:"gender,omitempty"`
	GivenName   string `json:"givenName,omitempty"`
	JobTitle    string `json:"jobTitle,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	NodeURI     string `json:"-"`
}

// Attributes returns the person's populated fields keyed by predicate name.
func (p *Person) Attributes() map[string]string {
	return compact(map[string]string{
		"name":        p.Name,
		"address":     p.Address,
		"affiliation": p.Affiliation,
		"birthDate":   p.BirthDate,
		"birthPlace":  p.BirthPlace,
		"deathDate":   p.DeathDate,
		"deathPlace":  p.DeathPlace,
		"email":       p.Email,
		"familyName":  p.FamilyName,
		"gender":      p.Gender,
		"givenName":   p.GivenName,
		"jobTitle":    p.JobTitle,
		"nationality": p.Nationality,
	})
}

// Organization holds the attributes stored for an organization node.
type Organization struct {
	Name                 string `json:"name,omitempty"`
	Address              string `json:"address,omitempty"`
	PublishingPrinciples string `json:"publishingPrinciples,omitempty"`
	NodeURI              string `json:"-"`
}

// Attributes returns the organization's populated fields keyed by predicate name.
func (o *Organization) Attributes() map[string]string {
	return compact(map[string]string{
		"name":                 o.Name,
		"address":              o.Address,
		"publishingPrinciples": o.PublishingPrinciples,
	})
}

// Entity is a tagged variant: a Person or an Organization plus the
// discriminant. Graph-emission code switches on Kind explicitly.
type Entity struct {
	Kind         EntityKind
	Person       *Person
	Organization *Organization
}

// NewPersonEntity wraps a Person in an Entity.
func NewPersonEntity(p *Person) Entity {
	return Entity{Kind: KindPerson, Person: p}
}

// NewOrganizationEntity wraps an Organization in an Entity.
func NewOrganizationEntity(o *Organization) Entity {
	return Entity{Kind: KindOrganization, Organization: o}
}

// Name returns the underlying entity's name.
func (e Entity) Name() string {
	switch e.Kind {
	case KindPerson:
		if e.Person != nil {
			return e.Person.Name
		}
	case KindOrganization:
		if e.Organization != nil {
			return e.Organization.Name
		}
	}
	return ""
}

// Attributes returns the underlying entity's populated fields.
func (e Entity) Attributes() map[string]string {
	switch e.Kind {
	case KindPerson:
		if e.Person != nil {
			return e.Person.Attributes()
		}
	case KindOrganization:
		if e.Organization != nil {
			return e.Organization.Attributes()
		}
	}
	return nil
}

func compact(m map[string]string) map[string]string {
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}
