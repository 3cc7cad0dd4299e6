package webutils

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/pkg/errors"
)

// FetchJson GETs url and unmarshals the body into v.
func FetchJson(client *http.Client, url string, v interface{}) error {
	data, err := FetchBytes(client, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "Failed to unmarshal %q", url)
	}
	return nil
}

// TryFetchJson is the swallowing variant: every failure is logged and
// reported as false, never propagated. Callers treat false as "null".
func TryFetchJson(client *http.Client, url string, v interface{}) bool {
	if err := FetchJson(client, url, v); err != nil {
		log.Printf("[webutils] Fetch %q failed: %v", url, err)
		return false
	}
	return true
}

func FetchText(client *http.Client, url string) (string, error) {
	data, err := FetchBytes(client, url)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func FetchBytes(client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to fetch %q", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("Fetch %q: status %v", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read %q", url)
	}
	return data, nil
}
