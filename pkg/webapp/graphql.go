package webapp

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/mnohosten/spimi-index/pkg/query"
)

var resultType = graphql.NewObject(graphql.ObjectConfig{
	Name:        "SearchResult",
	Description: "A single ranked document for a query",
	Fields: graphql.Fields{
		"url": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.String),
			Description: "The document's URL",
		},
		"score": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.Float),
			Description: "The document's accumulated tf_idf score for this query",
		},
	},
})

func searchSchema(evaluator *query.Evaluator) (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Query",
		Description: "Root query type for the search engine",
		Fields: graphql.Fields{
			"search": &graphql.Field{
				Type:        graphql.NewList(resultType),
				Description: "Ranked documents for a free-text query",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.String),
						Description: "The free-text query string",
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q, _ := p.Args["query"].(string)
					return evaluator.Search(q)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

// graphQLHandler serves GraphQL requests against the search-only schema.
type graphQLHandler struct {
	schema graphql.Schema
}

func newGraphQLHandler(evaluator *query.Evaluator) (*graphQLHandler, error) {
	schema, err := searchSchema(evaluator)
	if err != nil {
		return nil, err
	}
	return &graphQLHandler{schema: schema}, nil
}

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (h *graphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "GraphQL only accepts POST requests", http.StatusMethodNotAllowed)
		return
	}

	var req graphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func graphiQLHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(graphiqlHTML))
	}
}

const graphiqlHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Search GraphiQL</title>
<script crossorigin src="https://unpkg.com/react@17/umd/react.production.min.js"></script>
<script crossorigin src="https://unpkg.com/react-dom@17/umd/react-dom.production.min.js"></script>
<link rel="stylesheet" href="https://unpkg.com/graphiql@1.8.7/graphiql.min.css" />
</head>
<body style="margin:0;">
<div id="graphiql" style="height:100vh;">Loading...</div>
<script src="https://unpkg.com/graphiql@1.8.7/graphiql.min.js"></script>
<script>
const fetcher = GraphiQL.createFetcher({ url: '/graphql' });
ReactDOM.render(
  React.createElement(GraphiQL, {
    fetcher: fetcher,
    defaultQuery: '# query { search(query: "computer science") { url score } }\n',
  }),
  document.getElementById('graphiql'),
);
</script>
</body>
</html>
`
