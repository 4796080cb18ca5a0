package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

const leadTag = "crm_pipeline"

var errNoContact = errors.New("contact not found")

type Client struct {
	apiToken string
	baseURL  string
	http     *http.Client
}

// NewClient talks to the Kommo v4 API rooted at baseURL, e.g.
// https://example.kommo.com/api/v4.
func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		apiToken: apiToken,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SyncLead mirrors a newly created CRM lead into Kommo, attaching it to the
// contact matching its email or phone when one can be found or created.
func (c *Client) SyncLead(ctx context.Context, event queue.PipelineEvent) error {
	if c.apiToken == "" {
		return errors.New("kommo: api token not configured")
	}

	var contacts []contactRef
	if event.Email != "" || event.Phone != "" {
		contactID, err := c.findOrCreateContact(ctx, event)
		if err != nil {
			return fmt.Errorf("kommo contact: %w", err)
		}
		contacts = append(contacts, contactRef{ID: contactID})
	}

	name := event.Name
	if event.Company != "" {
		name = fmt.Sprintf("%s - %s", event.Name, event.Company)
	}

	var result embeddedIDs
	err := c.do(ctx, http.MethodPost, "/leads", []leadRequest{{
		Name: name,
		Embedded: leadEmbedded{
			Tags:     []tag{{Name: leadTag}},
			Contacts: contacts,
		},
	}}, &result)
	if err != nil {
		return fmt.Errorf("kommo lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return errors.New("kommo lead: empty response")
	}

	log.Printf("✅ Kommo: lead #%d created for %s", result.Embedded.Leads[0].ID, event.LeadID)
	return nil
}

func (c *Client) findOrCreateContact(ctx context.Context, event queue.PipelineEvent) (int, error) {
	for _, q := range []string{event.Email, event.Phone} {
		if q == "" {
			continue
		}
		id, err := c.findContact(ctx, q)
		if err == nil {
			log.Printf("📱 Kommo: existing contact %d", id)
			return id, nil
		}
		if !errors.Is(err, errNoContact) {
			return 0, err
		}
	}
	return c.createContact(ctx, event)
}

func (c *Client) findContact(ctx context.Context, query string) (int, error) {
	var result embeddedIDs
	status, err := c.doStatus(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(query), nil, &result)
	if err != nil {
		return 0, err
	}
	// Kommo answers an empty search with 204.
	if status == http.StatusNoContent || len(result.Embedded.Contacts) == 0 {
		return 0, errNoContact
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) createContact(ctx context.Context, event queue.PipelineEvent) (int, error) {
	contact := contactRequest{Name: event.Name}
	if event.Phone != "" {
		contact.CustomFieldsValues = append(contact.CustomFieldsValues, customField{
			FieldCode: "PHONE",
			Values:    []customFieldValue{{Value: event.Phone, EnumCode: "WORK"}},
		})
	}
	if event.Email != "" {
		contact.CustomFieldsValues = append(contact.CustomFieldsValues, customField{
			FieldCode: "EMAIL",
			Values:    []customFieldValue{{Value: event.Email, EnumCode: "WORK"}},
		})
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/contacts", []contactRequest{contact}, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("created contact has no id")
	}

	contactID := result.Embedded.Contacts[0].ID
	log.Printf("✅ Kommo: new contact %d", contactID)
	return contactID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	_, err := c.doStatus(ctx, method, path, body, out)
	return err
}

func (c *Client) doStatus(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	c.addAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return resp.StatusCode, fmt.Errorf("%s %s: %d - %s", method, path, resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
