package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hoa-server/services"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang-jwt/jwt/v5"
)

type property struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	TotalUnits    int    `json:"totalUnits"`
	OccupiedUnits int    `json:"occupiedUnits"`
}

type overwriteCode struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type loginSuccessMsg struct {
	userID uint
	token  string
}
type propertiesMsg []property
type codeMsg overwriteCode
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}
}

// do sends a JSON request and decodes the response into out. Non-2xx
// responses are turned into errors carrying the server's "error" message.
func (c *apiClient) do(method, path, token string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		return fmt.Errorf("%s", apiErr.Error)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		var result struct {
			AccessToken string `json:"accessToken"`
		}
		payload := map[string]string{"email": email, "password": password}
		if err := c.do(http.MethodPost, "/login", "", payload, &result); err != nil {
			return errMsg{err}
		}

		// The console only needs the caller's id; the server verifies the
		// signature on every request.
		var claims services.Claims
		if _, _, err := jwt.NewParser().ParseUnverified(result.AccessToken, &claims); err != nil {
			return errMsg{fmt.Errorf("unexpected token from server: %w", err)}
		}
		if claims.Role != "ADMIN" {
			return errMsg{fmt.Errorf("%s is not an administrator", email)}
		}
		return loginSuccessMsg{userID: claims.UserID, token: result.AccessToken}
	}
}

func (c *apiClient) properties(token string, adminID uint) tea.Cmd {
	return func() tea.Msg {
		var result struct {
			Data []property `json:"data"`
		}
		path := fmt.Sprintf("/api/admin/%d/properties", adminID)
		if err := c.do(http.MethodGet, path, token, nil, &result); err != nil {
			return errMsg{err}
		}
		return propertiesMsg(result.Data)
	}
}

func (c *apiClient) generateCode(token string, propertyID uint) tea.Cmd {
	return func() tea.Msg {
		var result struct {
			Data overwriteCode `json:"data"`
		}
		payload := map[string]interface{}{"propertyId": propertyID, "allUnits": true}
		if err := c.do(http.MethodPost, "/api/admin/generate-overwrite-code", token, payload, &result); err != nil {
			return errMsg{err}
		}
		return codeMsg(result.Data)
	}
}
