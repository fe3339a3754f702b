package clerk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"techconnect/internal/domain"
)

// profileResponse is the subset of Clerk's Backend API user object this
// service reads.
type profileResponse struct {
	ID                    string `json:"id"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	ImageURL              string `json:"image_url"`
	PrimaryEmailAddressID string `json:"primary_email_address_id"`
	EmailAddresses        []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

type profileFetcher struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewProfileFetcher returns a domain.ProfileFetcher backed by Clerk's
// Backend API, authenticated with the service secret key.
func NewProfileFetcher(baseURL, secretKey string) domain.ProfileFetcher {
	return &profileFetcher{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (f *profileFetcher) Fetch(ctx context.Context, subject string) (*domain.ExternalIdentity, error) {
	endpoint := fmt.Sprintf("%s/v1/users/%s", f.baseURL, url.PathEscape(subject))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.secretKey)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProfileFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrProfileFetchFailed, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProfileFetchFailed, err)
	}
	var profile profileResponse
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProfileFetchFailed, err)
	}

	email := ""
	for _, addr := range profile.EmailAddresses {
		if addr.ID == profile.PrimaryEmailAddressID {
			email = addr.EmailAddress
			break
		}
	}
	if email == "" && len(profile.EmailAddresses) > 0 {
		email = profile.EmailAddresses[0].EmailAddress
	}

	return &domain.ExternalIdentity{
		Subject:   subject,
		Email:     email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		ImageURL:  profile.ImageURL,
	}, nil
}
