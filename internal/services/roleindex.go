package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"recruitdesk/screening-service/internal/models"
)

// RoleIndexService keeps the scoring criteria embedded in a vector
// collection so free text (a context label, an operator query) can be
// matched against the role set semantically.
type RoleIndexService interface {
	InitCollection() error
	SyncRoles(ctx context.Context, criteria []models.ScoringCriterion) error
	SuggestRoles(ctx context.Context, query string, limit int) ([]models.RoleSuggestion, error)
}

type roleIndexService struct {
	client         *qdrant.Client
	gemini         GeminiService
	collectionName string
	vectorSize     uint64
}

func NewRoleIndexService(urlStr, apiKey, collectionName string, gemini GeminiService) (RoleIndexService, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &roleIndexService{
		client:         client,
		gemini:         gemini,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements RoleIndexService.
func (r *roleIndexService) InitCollection() error {
	ctx := context.Background()

	exists, err := r.client.CollectionExists(ctx, r.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Role collection already exists")
		return nil
	}

	err = r.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: r.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     r.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", r.collectionName)
	return nil
}

// SyncRoles implements RoleIndexService. Points are keyed by role title so
// re-syncing the same sheet replaces rather than duplicates.
func (r *roleIndexService) SyncRoles(ctx context.Context, criteria []models.ScoringCriterion) error {
	for _, c := range criteria {
		text := fmt.Sprintf("%s\n%s", c.Title, c.Requirements)

		embedding, err := r.gemini.GenerateEmbedding(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to embed role %q: %w", c.Title, err)
		}

		pointID := uuid.NewMD5(uuid.NameSpaceOID, []byte(c.Title))
		point := &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID.String()),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"title":        c.Title,
				"requirements": c.Requirements,
			}),
		}

		_, err = r.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: r.collectionName,
			Points:         []*qdrant.PointStruct{point},
		})
		if err != nil {
			return fmt.Errorf("failed to upsert role %q: %w", c.Title, err)
		}
	}

	return nil
}

// SuggestRoles implements RoleIndexService.
func (r *roleIndexService) SuggestRoles(ctx context.Context, query string, limit int) ([]models.RoleSuggestion, error) {
	embedding, err := r.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchResult, err := r.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: r.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search roles: %w", err)
	}

	var suggestions []models.RoleSuggestion
	for _, point := range searchResult {
		suggestion := models.RoleSuggestion{Score: point.Score}
		if title, ok := point.Payload["title"]; ok {
			if val, ok := title.GetKind().(*qdrant.Value_StringValue); ok {
				suggestion.Title = val.StringValue
			}
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}
