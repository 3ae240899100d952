package vectorstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/interviewcoach/coach/internal/platform/envutil"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

// pineconeStore resolves its index host lazily via DescribeIndex and caches
// one connection per namespace, since the SDK scopes a connection to a
// single namespace.
type pineconeStore struct {
	client    *pinecone.Client
	indexName string
	nsPrefix  string
	log       *logger.Logger

	conns map[string]*pinecone.IndexConnection
}

// NewPineconeStore builds a Store backed by a Pinecone serverless index.
// PINECONE_INDEX_NAME is required; PINECONE_NAMESPACE_PREFIX defaults to
// "coach" so namespaces don't collide with other applications sharing the
// index.
func NewPineconeStore(apiKey string, log *logger.Logger) (Store, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("pinecone api key required")
	}
	indexName := envutil.String("PINECONE_INDEX_NAME", "")
	if indexName == "" {
		return nil, fmt.Errorf("PINECONE_INDEX_NAME required")
	}
	client, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("pinecone new client: %w", err)
	}
	return &pineconeStore{
		client:    client,
		indexName: indexName,
		nsPrefix:  envutil.String("PINECONE_NAMESPACE_PREFIX", "coach"),
		log:       log.With("component", "pineconeStore"),
		conns:     make(map[string]*pinecone.IndexConnection),
	}, nil
}

func (s *pineconeStore) conn(ctx context.Context, namespace string) (*pinecone.IndexConnection, error) {
	ns := s.qualify(namespace)
	if c, ok := s.conns[ns]; ok {
		return c, nil
	}
	desc, err := s.client.DescribeIndex(ctx, s.indexName)
	if err != nil {
		return nil, fmt.Errorf("pinecone describe index %q: %w", s.indexName, err)
	}
	conn, err := s.client.Index(pinecone.NewIndexConnParams{Host: desc.Host, Namespace: ns})
	if err != nil {
		return nil, fmt.Errorf("pinecone index connection for namespace %q: %w", ns, err)
	}
	s.conns[ns] = conn
	return conn, nil
}

func (s *pineconeStore) qualify(namespace string) string {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return s.nsPrefix
	}
	return s.nsPrefix + ":" + namespace
}

func (s *pineconeStore) Upsert(ctx context.Context, namespace string, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	conn, err := s.conn(ctx, namespace)
	if err != nil {
		return err
	}
	vecs := make([]*pinecone.Vector, 0, len(vectors))
	for _, v := range vectors {
		meta, err := structpb.NewStruct(v.Metadata)
		if err != nil {
			return fmt.Errorf("pinecone metadata for vector %q: %w", v.ID, err)
		}
		vecs = append(vecs, &pinecone.Vector{
			Id:       v.ID,
			Values:   &v.Values,
			Metadata: meta,
		})
	}
	if _, err := conn.UpsertVectors(ctx, vecs); err != nil {
		return fmt.Errorf("pinecone upsert: %w", err)
	}
	return nil
}

func (s *pineconeStore) Query(ctx context.Context, namespace string, vec []float32, topK int, filter map[string]any) ([]Match, error) {
	if topK <= 0 {
		topK = 10
	}
	conn, err := s.conn(ctx, namespace)
	if err != nil {
		return nil, err
	}
	req := &pinecone.QueryByVectorValuesRequest{
		Vector:          vec,
		TopK:            uint32(topK),
		IncludeValues:   false,
		IncludeMetadata: true,
	}
	if len(filter) > 0 {
		f, err := structpb.NewStruct(filter)
		if err != nil {
			return nil, fmt.Errorf("pinecone filter: %w", err)
		}
		req.MetadataFilter = f
	}
	resp, err := conn.QueryByVectorValues(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("pinecone query: %w", err)
	}
	out := make([]Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		match := Match{ID: m.Vector.Id, Score: float64(m.Score)}
		if m.Vector.Metadata != nil {
			match.Metadata = m.Vector.Metadata.AsMap()
		}
		out = append(out, match)
	}
	return out, nil
}
