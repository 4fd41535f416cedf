package router

import (
	"github.com/facturo/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers are the HTTP handlers mounted by RegisterAPI
type Handlers struct {
	System          *handler.SystemHandler
	Auth            *handler.AuthHandler
	Client          *handler.ClientHandler
	Supplier        *handler.SupplierHandler
	Product         *handler.ProductHandler
	Template        *handler.TemplateHandler
	CompanyProfile  *handler.CompanyProfileHandler
	Invoice         *handler.InvoiceHandler
	DerivedDocument *handler.DerivedDocumentHandler
	Document        *handler.DocumentHandler
	Chat            *handler.ChatHandler
	Subscription    *handler.SubscriptionHandler
	Realtime        *handler.RealtimeHandler
}

// Guards are the middleware chains in front of each route tier. A nil
// guard is left out of its chain.
type Guards struct {
	// AuthRateLimit throttles the credential endpoints per IP
	AuthRateLimit gin.HandlerFunc
	// Auth requires a bearer token
	Auth gin.HandlerFunc
	// StreamAuth also accepts ?access_token= for EventSource clients
	StreamAuth gin.HandlerFunc
	// PostAuth runs after authentication (span enrichment, per-user rate limit)
	PostAuth []gin.HandlerFunc
	// SubscriptionGate blocks users without an active subscription
	SubscriptionGate gin.HandlerFunc
	// Admin requires the admin role
	Admin gin.HandlerFunc
}

func (g Guards) authenticated(auth gin.HandlerFunc) []gin.HandlerFunc {
	return append([]gin.HandlerFunc{auth}, g.PostAuth...)
}

// RegisterAPI mounts /health and the /api/v1 tree on engine.
//
//	public         /auth/sign-up, /auth/sign-in, /auth/refresh
//	authenticated  /auth/*, /subscription, /realtime/stream
//	business       CRUD, invoices, derived documents, exports, chat
//	admin          /admin/*
func RegisterAPI(engine *gin.Engine, h Handlers, g Guards) {
	engine.GET("/health", h.System.Health)

	public := NewGroup("/auth").Use(g.AuthRateLimit)
	public.POST("/sign-up", h.Auth.SignUp)
	public.POST("/sign-in", h.Auth.SignIn)
	public.POST("/refresh", h.Auth.Refresh)

	session := NewGroup("").Use(g.authenticated(g.Auth)...)
	session.POST("/auth/sign-out", h.Auth.SignOut)
	session.GET("/auth/me", h.Auth.Me)
	session.POST("/auth/password", h.Auth.ChangePassword)
	session.GET("/system/info", h.System.Info)
	session.GET("/subscription", h.Subscription.Get)
	session.POST("/subscription", h.Subscription.Submit)

	stream := NewGroup("/realtime").Use(g.authenticated(g.StreamAuth)...)
	stream.GET("/stream", h.Realtime.Stream)

	business := NewGroup("").Use(g.authenticated(g.Auth)...).Use(g.SubscriptionGate)
	registerCatalog(business, h)
	registerInvoicing(business, h)
	business.GET("/chat/messages", h.Chat.ListMessages)
	business.POST("/chat/messages", h.Chat.SendMessage)
	business.POST("/chat/messages/read", h.Chat.MarkRead)

	admin := NewGroup("/admin").Use(g.authenticated(g.Auth)...).Use(g.Admin)
	admin.GET("/subscriptions/pending", h.Subscription.ListPending)
	admin.POST("/subscriptions/:user_id/approve", h.Subscription.Approve)
	admin.POST("/subscriptions/:user_id/reject", h.Subscription.Reject)
	admin.GET("/chat/conversations", h.Chat.ListConversations)
	admin.GET("/chat/:user_id/messages", h.Chat.AdminListMessages)
	admin.POST("/chat/:user_id/messages", h.Chat.AdminSendMessage)
	admin.POST("/chat/:user_id/messages/read", h.Chat.AdminMarkRead)
	admin.POST("/users/:user_id/sign-out", h.Auth.SignOutEverywhere)

	Mount(engine, APIBase, public, session, stream, business, admin)
}

func registerCatalog(business *Group, h Handlers) {
	clients := business.Nested("/clients")
	clients.GET("", h.Client.List)
	clients.POST("", h.Client.Create)
	clients.GET("/:id", h.Client.GetByID)
	clients.PUT("/:id", h.Client.Update)
	clients.DELETE("/:id", h.Client.Delete)

	suppliers := business.Nested("/suppliers")
	suppliers.GET("", h.Supplier.List)
	suppliers.POST("", h.Supplier.Create)
	suppliers.GET("/:id", h.Supplier.GetByID)
	suppliers.PUT("/:id", h.Supplier.Update)
	suppliers.DELETE("/:id", h.Supplier.Delete)

	products := business.Nested("/products")
	products.GET("", h.Product.List)
	products.POST("", h.Product.Create)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", h.Product.Update)
	products.DELETE("/:id", h.Product.Delete)

	templates := business.Nested("/templates")
	templates.GET("", h.Template.List)
	templates.POST("", h.Template.Create)
	templates.GET("/default", h.Template.GetDefault)
	templates.GET("/:id", h.Template.GetByID)
	templates.PUT("/:id", h.Template.Update)
	templates.DELETE("/:id", h.Template.Delete)
	templates.POST("/:id/default", h.Template.SetDefault)

	profile := business.Nested("/company-profile")
	profile.GET("", h.CompanyProfile.Get)
	profile.PUT("", h.CompanyProfile.Upsert)
	profile.POST("/assets/:kind", h.CompanyProfile.UploadAsset)
}

func registerInvoicing(business *Group, h Handlers) {
	invoices := business.Nested("/invoices")
	invoices.GET("", h.Invoice.List)
	invoices.POST("", h.Invoice.Create)
	invoices.POST("/preview-totals", h.Invoice.PreviewTotals)
	invoices.GET("/:id", h.Invoice.GetByID)
	invoices.PUT("/:id", h.Invoice.Update)
	invoices.PATCH("/:id/status", h.Invoice.UpdateStatus)
	invoices.DELETE("/:id", h.Invoice.Delete)
	invoices.POST("/:id/quotes", h.Invoice.GenerateQuote)
	invoices.POST("/:id/delivery-notes", h.Invoice.GenerateDeliveryNote)

	quotes := business.Nested("/quotes")
	quotes.GET("", h.DerivedDocument.ListQuotes)
	quotes.GET("/:id", h.DerivedDocument.GetQuote)
	quotes.DELETE("/:id", h.DerivedDocument.DeleteQuote)

	notes := business.Nested("/delivery-notes")
	notes.GET("", h.DerivedDocument.ListDeliveryNotes)
	notes.GET("/:id", h.DerivedDocument.GetDeliveryNote)
	notes.DELETE("/:id", h.DerivedDocument.DeleteDeliveryNote)

	documents := business.Nested("/documents")
	documents.GET("/:kind/:id/html", h.Document.HTML)
	documents.GET("/:kind/:id/pdf", h.Document.PDF)
}
