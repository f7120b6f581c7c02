package document

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) pushOp() huma.Operation {
	return huma.Operation{
		OperationID:   "documents-push",
		Method:        http.MethodPost,
		Path:          "/api/{collection}",
		Summary:       "Принять запись клиента",
		Description:   "Сохраняет документ по паре (collection, id). Повторная отправка перезаписывает документ.",
		Tags:          []string{"documents"},
		DefaultStatus: http.StatusOK,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "documents-list",
		Method:      http.MethodGet,
		Path:        "/api/{collection}",
		Summary:     "Последние принятые записи коллекции",
		Tags:        []string{"documents"},
		Middlewares: h.middleware,
	}
}
