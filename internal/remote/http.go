package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPStore talks to the ridetrail API server.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

func (s *HTTPStore) SignInWithPassword(ctx context.Context, email, password string) (AuthResult, error) {
	return s.authRequest(ctx, "/auth/token?grant_type=password", email, password)
}

func (s *HTTPStore) SignUp(ctx context.Context, email, password string) (AuthResult, error) {
	return s.authRequest(ctx, "/auth/signup", email, password)
}

func (s *HTTPStore) authRequest(ctx context.Context, path, email, password string) (AuthResult, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return AuthResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return AuthResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return AuthResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return AuthResult{}, apiError(resp)
	}

	var result AuthResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return AuthResult{}, err
	}
	return result, nil
}

func (s *HTTPStore) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

func (s *HTTPStore) InsertRide(ctx context.Context, accessToken string, ride Ride) (Ride, error) {
	body, err := json.Marshal(ride)
	if err != nil {
		return Ride{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/rides/", bytes.NewReader(body))
	if err != nil {
		return Ride{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return Ride{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return Ride{}, apiError(resp)
	}

	var inserted []Ride
	if err := json.NewDecoder(resp.Body).Decode(&inserted); err != nil {
		return Ride{}, err
	}
	if len(inserted) == 0 {
		return Ride{}, errors.New("insert returned no rows")
	}
	return inserted[0], nil
}

func (s *HTTPStore) ListRides(ctx context.Context, accessToken, userID string) ([]Ride, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/rides/?user_id="+userID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var rides []Ride
	if err := json.NewDecoder(resp.Body).Decode(&rides); err != nil {
		return nil, err
	}
	return rides, nil
}

func (s *HTTPStore) GetRide(ctx context.Context, accessToken, id string) (*Ride, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/rides/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var ride Ride
	if err := json.NewDecoder(resp.Body).Decode(&ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: body.Message}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("unexpected status: %d", resp.StatusCode)}
}
