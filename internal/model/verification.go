package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type SocialMediaLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// Links returns the non-empty social links in a stable order.
func (l SocialMediaLinks) Links() []string {
	var out []string
	for _, link := range []string{l.Facebook, l.Instagram, l.Twitter, l.LinkedIn} {
		if link != "" {
			out = append(out, link)
		}
	}
	return out
}

// VerificationData is the business-presence evidence a coach or turf owner
// submits for review. Stored as a JSONB column on users.
type VerificationData struct {
	GoogleBusinessURL    string           `json:"google_business_url,omitempty"`
	GoogleMapsURL        string           `json:"google_maps_url,omitempty"`
	WebsiteURL           string           `json:"website_url,omitempty"`
	SocialMediaLinks     SocialMediaLinks `json:"social_media_links,omitempty"`
	BusinessRegistration string           `json:"business_registration,omitempty"`
	AdditionalInfo       string           `json:"additional_info,omitempty"`
	SubmittedAt          *time.Time       `json:"submitted_at,omitempty"`
}

// VerificationDocuments holds S3 object keys of uploaded proof documents.
type VerificationDocuments struct {
	IDProof            string `json:"id_proof,omitempty"`
	CertificationProof string `json:"certification_proof,omitempty"`
	AddressProof       string `json:"address_proof,omitempty"`
}

func (v VerificationData) Value() (driver.Value, error) {
	return json.Marshal(v)
}

func (v *VerificationData) Scan(src interface{}) error {
	return scanJSON(src, v)
}

func (d VerificationDocuments) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *VerificationDocuments) Scan(src interface{}) error {
	return scanJSON(src, d)
}

func scanJSON(src, dst interface{}) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	case nil:
		return nil
	default:
		return errors.New("unsupported type for JSONB scan")
	}
}
