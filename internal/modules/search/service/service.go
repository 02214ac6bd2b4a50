package service

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"sahaaya.org/actionhub/internal/entity"
)

// SearchService indexes donations into Meilisearch so contributors can find
// past donations by donor, team, item or description text.
type SearchService interface {
	IndexDonation(donation *entity.Donation) error
	DeleteDonation(id string) error
	SearchDonations(query string, limit int) ([]map[string]any, error)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	filterableAttrs := []string{"status", "team_id"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index("donations").UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update donations filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at", "points_awarded"}
	_, err = s.client.Index("donations").UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update donations sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliDonationDoc struct {
	ID            string   `json:"id"`
	DonorName     string   `json:"donor_name"`
	TeamID        string   `json:"team_id"`
	Items         []string `json:"items"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	PointsAwarded int      `json:"points_awarded"`
	CreatedAt     int64    `json:"created_at"`
}

func (s *searchService) cleanContentForIndex(content string) string {
	sanitized := s.sanitizer.Sanitize(content)
	return strings.Join(strings.Fields(sanitized), " ")
}

func (s *searchService) IndexDonation(donation *entity.Donation) error {
	items := make([]string, 0, len(donation.Items))
	for _, item := range donation.Items {
		items = append(items, string(item.Category))
	}

	doc := meiliDonationDoc{
		ID:            donation.ID.String(),
		DonorName:     donation.DonorName,
		TeamID:        donation.TeamID,
		Items:         items,
		Description:   s.cleanContentForIndex(donation.Description),
		Status:        string(donation.Status),
		PointsAwarded: donation.PointsAwarded,
		CreatedAt:     donation.CreatedAt.Unix(),
	}

	task, err := s.client.Index("donations").AddDocuments([]meiliDonationDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed donation %s, task id: %d", donation.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteDonation(id string) error {
	_, err := s.client.Index("donations").DeleteDocument(id)
	return err
}

func (s *searchService) SearchDonations(query string, limit int) ([]map[string]any, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}

	resp, err := s.client.Index("donations").Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}
	var hits []map[string]any
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, err
	}

	return hits, nil
}

func strPtr(s string) *string {
	return &s
}
