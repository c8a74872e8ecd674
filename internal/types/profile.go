package types

// AuthorProfile is the aggregated per-journalist view built from one or more
// article records plus optional enrichment. One profile exists per distinct
// validated author name.
type AuthorProfile struct {
	Name           string   `json:"name" bson:"name"`
	Beat           string   `json:"beat,omitempty" bson:"beat,omitempty"`
	Role           string   `json:"role,omitempty" bson:"role,omitempty"`
	Bio            string   `json:"bio,omitempty" bson:"bio,omitempty"`
	Email          string   `json:"email,omitempty" bson:"email,omitempty"`
	Twitter        string   `json:"twitter,omitempty" bson:"twitter,omitempty"`
	LinkedIn       string   `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Instagram      string   `json:"instagram,omitempty" bson:"instagram,omitempty"`
	Facebook       string   `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Workplace      string   `json:"workplace,omitempty" bson:"workplace,omitempty"`
	ArticlesCount  int      `json:"articles_count" bson:"articles_count"`
	RecentArticles []string `json:"recent_articles,omitempty" bson:"recent_articles,omitempty"`
	ArticleURLs    []string `json:"article_urls,omitempty" bson:"article_urls,omitempty"`
	MostRecentDate string   `json:"most_recent_date,omitempty" bson:"most_recent_date,omitempty"`
	ProfileURL     string   `json:"profile_url,omitempty" bson:"profile_url,omitempty"`
}

// Enrichment is supplementary author data from a source other than the
// article pages themselves: an on-site profile page or an external search.
// Empty fields mean "nothing found" and never overwrite a known value.
type Enrichment struct {
	Role       string
	Bio        string
	Beat       string
	Email      string
	Twitter    string
	LinkedIn   string
	Instagram  string
	Facebook   string
	Workplace  string
	ProfileURL string
}

// IsEmpty reports whether the enrichment carries no data at all.
func (e *Enrichment) IsEmpty() bool {
	return e == nil || *e == Enrichment{}
}

// Merge applies non-empty overwrite: every non-empty enrichment field
// replaces the profile's current value; empty fields leave it untouched.
func (p *AuthorProfile) Merge(e *Enrichment) {
	if e == nil {
		return
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.Role, e.Role)
	set(&p.Bio, e.Bio)
	set(&p.Beat, e.Beat)
	set(&p.Email, e.Email)
	set(&p.Twitter, e.Twitter)
	set(&p.LinkedIn, e.LinkedIn)
	set(&p.Instagram, e.Instagram)
	set(&p.Facebook, e.Facebook)
	set(&p.Workplace, e.Workplace)
	set(&p.ProfileURL, e.ProfileURL)
}
