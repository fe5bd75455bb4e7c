package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aup/pkg/models"
)

// DefaultBaseURL is the hosted Auphonic API.
const DefaultBaseURL = "https://auphonic.com/api"

// Client talks to the Auphonic REST API with a bearer token. Status
// queries use a short timeout; uploads and artifact downloads get
// longer ones because they move whole media files.
type Client struct {
	baseURL        string
	apiKey         string
	httpClient     *http.Client
	uploadClient   *http.Client
	downloadClient *http.Client
}

// NewClient creates a client for the given API base URL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		uploadClient:   &http.Client{Timeout: 5 * time.Minute},
		downloadClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// addAuthHeader adds the bearer token to a request.
func (c *Client) addAuthHeader(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// envelope is the common response wrapper of the Auphonic API.
type envelope struct {
	StatusCode   int             `json:"status_code"`
	ErrorCode    json.RawMessage `json:"error_code"`
	ErrorMessage string          `json:"error_message"`
	Data         json.RawMessage `json:"data"`
}

func (e *envelope) hasError() bool {
	s := strings.TrimSpace(string(e.ErrorCode))
	return s != "" && s != "null" && s != `""` && s != "0"
}

func (e *envelope) errorText() string {
	if e.ErrorMessage != "" {
		return e.ErrorMessage
	}
	return "unknown error"
}

// UploadAndStart uploads a local audio file and starts a production in
// one simple-API request. The caller gets the initial production body,
// which carries at least the new production UUID.
func (c *Client) UploadAndStart(path, preset, title string) (*models.Production, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeProductionForm(mw, f, filepath.Base(path), preset, title)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/simple/productions.json", pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.addAuthHeader(req)

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to auphonic: %w", err)
	}
	defer resp.Body.Close()

	return decodeProduction(resp)
}

func writeProductionForm(mw *multipart.Writer, f io.Reader, filename, preset, title string) error {
	if err := mw.WriteField("preset", preset); err != nil {
		return err
	}
	if err := mw.WriteField("title", title); err != nil {
		return err
	}
	if err := mw.WriteField("action", "start"); err != nil {
		return err
	}
	part, err := mw.CreateFormFile("input_file", filename)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

// GetProduction fetches the current status body of a production.
func (c *Client) GetProduction(uuid string) (*models.Production, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/production/%s.json", c.baseURL, uuid), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.addAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query production status: %w", err)
	}
	defer resp.Body.Close()

	return decodeProduction(resp)
}

// rawPreset is the wire form of a preset in the presets listing.
type rawPreset struct {
	UUID         string `json:"uuid"`
	PresetName   string `json:"preset_name"`
	CreationTime string `json:"creation_time"`
	IsMultitrack bool   `json:"is_multitrack"`
}

// ListPresets fetches all presets of the account, minimal fields only.
func (c *Client) ListPresets() ([]models.Preset, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/presets.json?minimal_data=1", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.addAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	defer resp.Body.Close()

	env, err := decodeEnvelope(resp)
	if err != nil {
		return nil, err
	}

	var raw []rawPreset
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}

	presets := make([]models.Preset, 0, len(raw))
	for _, p := range raw {
		name := p.PresetName
		if name == "" {
			name = "Untitled"
		}
		created := p.CreationTime
		if len(created) > 10 {
			created = created[:10]
		}
		presets = append(presets, models.Preset{
			UUID:         p.UUID,
			Name:         name,
			Created:      created,
			IsMultitrack: p.IsMultitrack,
		})
	}
	return presets, nil
}

// DownloadFile streams one artifact URL into w. The same bearer token
// authorizes artifact downloads.
func (c *Client) DownloadFile(url string, w io.Writer) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.addAuthHeader(req)

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to write file contents: %w", err)
	}
	return nil
}

func decodeEnvelope(resp *http.Response) (*envelope, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if env.hasError() {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.errorText()}
	}
	return &env, nil
}

func decodeProduction(resp *http.Response) (*models.Production, error) {
	env, err := decodeEnvelope(resp)
	if err != nil {
		return nil, err
	}
	var prod models.Production
	if err := json.Unmarshal(env.Data, &prod); err != nil {
		return nil, fmt.Errorf("failed to parse production: %w", err)
	}
	return &prod, nil
}
