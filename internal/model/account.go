package model

// Account represents a registered user with its profile groups. Profile
// columns are nullable: they are filled in over time through the settings
// endpoints, never at registration.
type Account struct {
	Base
	Email        string `json:"email" db:"email"`
	FullName     string `json:"full_name" db:"full_name"`
	PasswordHash string `json:"-" db:"password_hash"`

	// Business information
	BusinessName      *string `json:"business_name,omitempty" db:"business_name"`
	BusinessPhone     *string `json:"business_phone,omitempty" db:"business_phone"`
	BusinessAddress   JSONMap `json:"business_address,omitempty" db:"business_address"`
	TargetMarket      *string `json:"target_market,omitempty" db:"target_market"`
	ValueProposition  *string `json:"value_proposition,omitempty" db:"value_proposition"`
	AdditionalContext *string `json:"additional_context,omitempty" db:"additional_context"`

	// Social media
	Instagram *string `json:"instagram,omitempty" db:"instagram"`
	Facebook  *string `json:"facebook,omitempty" db:"facebook"`
	TikTok    *string `json:"tiktok,omitempty" db:"tiktok"`
	LinkedIn  *string `json:"linkedin,omitempty" db:"linkedin"`
	YouTube   *string `json:"youtube,omitempty" db:"youtube"`
	Twitter   *string `json:"twitter,omitempty" db:"twitter"`
	Threads   *string `json:"threads,omitempty" db:"threads"`

	// Branding
	PrimaryColor     *string `json:"primary_color,omitempty" db:"primary_color"`
	SecondaryColor   *string `json:"secondary_color,omitempty" db:"secondary_color"`
	BrandVoice       *string `json:"brand_voice,omitempty" db:"brand_voice"`
	BrandDescription *string `json:"brand_description,omitempty" db:"brand_description"`
	LogoKey          *string `json:"-" db:"logo_key"`
}

// Identity is the public view of an account returned by auth endpoints.
type Identity struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func (a *Account) Identity() Identity {
	return Identity{Email: a.Email, FullName: a.FullName}
}

// BusinessInfo is the business settings group. A nil field means "unset"
// when reading and "keep existing" when writing.
type BusinessInfo struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Address           JSONMap `json:"address"`
	TargetMarket      *string `json:"target_market"`
	ValueProposition  *string `json:"value_proposition"`
	AdditionalContext *string `json:"additional_context"`
}

// SocialLinks is the social settings group.
type SocialLinks struct {
	Instagram *string `json:"instagram" binding:"omitempty,max=255"`
	Facebook  *string `json:"facebook" binding:"omitempty,max=255"`
	TikTok    *string `json:"tiktok" binding:"omitempty,max=255"`
	LinkedIn  *string `json:"linkedin" binding:"omitempty,max=255"`
	YouTube   *string `json:"youtube" binding:"omitempty,max=255"`
	Twitter   *string `json:"twitter" binding:"omitempty,max=255"`
	Threads   *string `json:"threads" binding:"omitempty,max=255"`
}

// Branding is the branding settings group. Colors are 7-character hex
// strings like "#485fc7".
type Branding struct {
	PrimaryColor     *string `json:"primary_color" binding:"omitempty,hexcolor"`
	SecondaryColor   *string `json:"secondary_color" binding:"omitempty,hexcolor"`
	BrandVoice       *string `json:"brand_voice" binding:"omitempty,max=50"`
	BrandDescription *string `json:"brand_description"`
	LogoURL          *string `json:"logo_url,omitempty"`
}

// Settings is the profile snapshot returned by GET /users/settings.
type Settings struct {
	Email    string       `json:"email"`
	Business BusinessInfo `json:"business"`
	Social   SocialLinks  `json:"social"`
	Branding Branding     `json:"branding"`
}

// SettingsPatch is the partial-update document accepted by
// PUT /users/settings. Each group is optional; within a present group,
// nil fields retain their stored value.
type SettingsPatch struct {
	Business *BusinessInfo `json:"business"`
	Social   *SocialLinks  `json:"social"`
	Branding *Branding     `json:"branding"`
}

// Empty reports whether the patch carries none of the recognized groups.
func (p *SettingsPatch) Empty() bool {
	return p.Business == nil && p.Social == nil && p.Branding == nil
}
