package database

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/google/uuid"
	"github.com/oranjParker/Sintillio/internal/config"
	"github.com/qdrant/go-client/qdrant"
)

type QdrantClient struct {
	Client *qdrant.Client
}

func NewQdrantClient(cfg config.QdrantConfig) (*QdrantClient, error) {
	host, portStr, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		host = cfg.Addr
		portStr = "6334"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid qdrant port %q: %w", portStr, err)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize qdrant client: %w", err)
	}

	return &QdrantClient{
		Client: client,
	}, nil
}

func (q *QdrantClient) EnsureCollection(ctx context.Context, name string, size uint64) error {
	exists, err := q.Client.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return q.Client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     size,
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
}

// Upsert stores vector under a point id derived from key, so re-embedding the
// same content result overwrites its point.
func (q *QdrantClient) Upsert(ctx context.Context, collection, key string, vector []float32, payload map[string]any) error {
	id := uuid.NewMD5(uuid.NameSpaceURL, []byte(key)).String()

	_, err := q.Client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDUUID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(payload),
			},
		},
	})

	return err
}

func (q *QdrantClient) Close() error {
	return q.Client.Close()
}
