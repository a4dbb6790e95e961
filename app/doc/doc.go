package doc

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"

	// registers the generated swagger document
	_ "github.com/ganette57/pumpmarket.fun-sub001/docs"
)

func serveSwaggerJSON(environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		originalJSON, err := swag.ReadDoc()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read Swagger doc"})
			return
		}

		var swaggerData map[string]interface{}
		if err := json.Unmarshal([]byte(originalJSON), &swaggerData); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Swagger doc"})
			return
		}

		swaggerData["servers"] = getServersForEnvironment(environment)

		// Trades are attributed by wallet header, not a bearer token
		if swaggerData["components"] == nil {
			swaggerData["components"] = make(map[string]interface{})
		}
		components := swaggerData["components"].(map[string]interface{})
		components["securitySchemes"] = map[string]interface{}{
			"WalletAddress": map[string]interface{}{
				"type":        "apiKey",
				"in":          "header",
				"name":        "X-Wallet-Address",
				"description": "Base58 Solana wallet placing the trade",
			},
		}

		modifiedJSON, err := json.Marshal(swaggerData)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate modified Swagger doc"})
			return
		}

		c.Data(http.StatusOK, "application/json", modifiedJSON)
	}
}

func getServersForEnvironment(environment string) []map[string]interface{} {
	switch environment {
	case "production":
		return []map[string]interface{}{
			{"url": "https://api.funmarket.pump/api/v1", "description": "Production Server"},
		}
	case "staging":
		return []map[string]interface{}{
			{"url": "https://staging-api.funmarket.pump/api/v1", "description": "Staging Server"},
		}
	default:
		return []map[string]interface{}{
			{"url": "http://localhost:8080/api/v1", "description": "Local Development Server"},
		}
	}
}

const elementsHTML = `
<!DOCTYPE html>
<html>
<head>
    <title>FunMarket API Documentation</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <script src="https://unpkg.com/@stoplight/elements/web-components.min.js"></script>
    <link rel="stylesheet" href="https://unpkg.com/@stoplight/elements/styles.min.css">
    <style>
        body { margin: 0; padding: 0; height: 100vh; }
        elements-api { height: 100%; }
    </style>
</head>
<body>
    <elements-api
        apiDescriptionUrl="/swagger/doc.json"
        router="hash"
        layout="sidebar"
        hideInternal="false"
    ></elements-api>
</body>
</html>`

func serveElements(c *gin.Context) {
	c.Header("Content-Type", "text/html")
	c.String(http.StatusOK, elementsHTML)
}

// Init mounts the swagger document and its viewer.
func Init(r *gin.Engine, environment string) {
	r.GET("/swagger/doc.json", serveSwaggerJSON(environment))
	r.GET("/docs/*any", serveElements)
}
