package document

import (
	"babytracker/internal/domain/sync"
)

type pushInput struct {
	Collection string `path:"collection" doc:"Collection name, e.g. feeds"`
	RawBody    []byte `contentType:"application/json"`
}

type pushOutput struct {
	Status int
	Body   sync.PushResult
}

type listInput struct {
	Collection string `path:"collection" doc:"Collection name, e.g. feeds"`
	Limit      int    `query:"limit" minimum:"1" default:"200" doc:"Maximum number of documents"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Collection string           `json:"collection"`
	Documents  []*sync.Document `json:"documents"`
}
