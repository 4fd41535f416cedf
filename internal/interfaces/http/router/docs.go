package router

import (
	_ "github.com/facturo/backend/docs" // registers the generated OpenAPI document
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// DocsPath serves the Swagger UI and doc.json
const DocsPath = "/swagger/*any"

// RegisterDocs mounts the API documentation behind the given guards
func RegisterDocs(engine *gin.Engine, guards ...gin.HandlerFunc) {
	chain := make([]gin.HandlerFunc, 0, len(guards)+1)
	for _, g := range guards {
		if g != nil {
			chain = append(chain, g)
		}
	}
	chain = append(chain, ginSwagger.WrapHandler(swaggerFiles.Handler))
	engine.GET(DocsPath, chain...)
}
