package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// requestTimeout bounds a single API call. Review generation happens in
// the daemon's background stages, but the rebuttal endpoint blocks on a
// model call, so this is generous.
const requestTimeout = 2 * time.Minute

// Client is a thin wrapper over the revued JSON API.
type Client struct {
	baseURL string
	http    *http.Client
}

// getClient returns a client for the configured daemon address.
func getClient() *Client {
	return &Client{
		baseURL: strings.TrimRight(daemonAddr, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// apiError mirrors the daemon's error envelope.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do performs a request and decodes the JSON response into out.
func (c *Client) do(method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cannot reach revued at %s: %w",
			c.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil &&
			apiErr.Error.Message != "" {

			return fmt.Errorf("%s", apiErr.Error.Message)
		}
		return fmt.Errorf("request failed with status %d",
			resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// get performs a GET request.
func (c *Client) get(path string, out any) error {
	return c.do(http.MethodGet, path, nil, out)
}

// post performs a POST request with a JSON body.
func (c *Client) post(path string, body, out any) error {
	return c.do(http.MethodPost, path, body, out)
}

// upload sends a multipart document to the upload endpoint.
func (c *Client) upload(title, conferenceID, fileName string,
	data []byte, out any,
) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("title", title); err != nil {
		return err
	}
	if err := mw.WriteField("conferenceId", conferenceID); err != nil {
		return err
	}
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return err
	}
	if _, err := fw.Write(data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	resp, err := c.http.Post(
		c.baseURL+"/api/v1/submissions/upload",
		mw.FormDataContentType(), &buf,
	)
	if err != nil {
		return fmt.Errorf("cannot reach revued at %s: %w",
			c.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil &&
			apiErr.Error.Message != "" {

			return fmt.Errorf("%s", apiErr.Error.Message)
		}
		return fmt.Errorf("upload failed with status %d",
			resp.StatusCode)
	}

	if out != nil {
		return json.Unmarshal(body, out)
	}

	return nil
}

// download fetches a raw (non-JSON) resource.
func (c *Client) download(path string) ([]byte, error) {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("cannot reach revued at %s: %w",
			c.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("request failed with status %d",
			resp.StatusCode)
	}

	return data, nil
}

// printJSON renders a value as indented JSON on stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
