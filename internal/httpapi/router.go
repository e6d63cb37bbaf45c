package httpapi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/OdenLounge/odenLounge-backend/internal/assets"
	"github.com/OdenLounge/odenLounge-backend/internal/errs"
	"github.com/OdenLounge/odenLounge-backend/internal/events"
	"github.com/OdenLounge/odenLounge-backend/internal/models"
	"github.com/OdenLounge/odenLounge-backend/internal/notify"
	"github.com/OdenLounge/odenLounge-backend/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// Server bundles the collaborators the HTTP handlers need.
type Server struct {
	gallery      *service.Gallery
	menu         *service.Menu
	reservations *service.Reservations
	dispatcher   *notify.Dispatcher
	hub          *events.Hub
	adminEmail   string
	log          *zap.Logger
}

func NewServer(gallery *service.Gallery, menu *service.Menu, reservations *service.Reservations,
	dispatcher *notify.Dispatcher, hub *events.Hub, adminEmail string, log *zap.Logger) *Server {
	return &Server{
		gallery:      gallery,
		menu:         menu,
		reservations: reservations,
		dispatcher:   dispatcher,
		hub:          hub,
		adminEmail:   adminEmail,
		log:          log,
	}
}

// Router builds the gin engine with every route of the public API.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	router.GET("/gallery", s.listGallery)
	router.POST("/gallery/upload", s.uploadGalleryImage)
	router.POST("/gallery/:id/comment", s.addComment)
	router.POST("/gallery/:id/like", s.likeImage)
	router.POST("/gallery/:id/rate", s.rateImage)
	router.DELETE("/images/:imageId", s.deleteGalleryImage)
	router.DELETE("/images/:imageId/comments", s.deleteComment)

	menu := router.Group("/menu")
	{
		menu.POST("/category", s.createCategory)
		menu.GET("/menuCategory", s.categoryNames)
		menu.GET("/mainMenuItems", s.menuForDisplay)
		menu.GET("/menuItems", s.pagedCategories)
		menu.POST("/uploadMenuItem", s.uploadMenuItem)
		menu.PUT("/:categoryId/:itemId", s.updateMenuItem)
		menu.DELETE("/:categoryId/:itemId", s.deleteMenuItem)
	}

	router.POST("/reservations", s.createReservation)
	router.GET("/reservations/:referenceNumber", s.getReservation)

	admin := router.Group("/admin")
	{
		admin.GET("/reservations", s.listReservations)
		admin.PUT("/reservations/:id", s.updateReservationStatus)
		admin.GET("/events", s.adminEvents)
	}

	router.POST("/contact", s.contactForm)

	return router
}

// --- gallery ---

func (s *Server) listGallery(c *gin.Context) {
	items, err := s.gallery.List()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) uploadGalleryImage(c *gin.Context) {
	up, err := formUpload(c, "image")
	if err != nil {
		s.fail(c, err)
		return
	}
	item, err := s.gallery.Upload(c.Request.Context(), up, c.PostForm("title"), c.PostForm("description"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) addComment(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and text are required"})
		return
	}
	comments, err := s.gallery.AddComment(c.Param("id"), req.Name, req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (s *Server) likeImage(c *gin.Context) {
	likes, err := s.gallery.Like(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

func (s *Server) rateImage(c *gin.Context) {
	var req struct {
		User   string `json:"user"`
		Rating int    `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user and rating are required"})
		return
	}
	avg, err := s.gallery.Rate(c.Param("id"), req.User, req.Rating)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"averageRating": avg})
}

func (s *Server) deleteGalleryImage(c *gin.Context) {
	if err := s.gallery.DeleteItem(c.Request.Context(), c.Param("imageId")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image and associated data deleted successfully"})
}

func (s *Server) deleteComment(c *gin.Context) {
	var req struct {
		CommentID string `json:"commentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.CommentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commentId is required"})
		return
	}
	if err := s.gallery.DeleteComment(c.Param("imageId"), req.CommentID); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// --- menu ---

func (s *Server) createCategory(c *gin.Context) {
	var req struct {
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category name is required"})
		return
	}
	cat, err := s.menu.CreateCategory(req.Category)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) categoryNames(c *gin.Context) {
	names, err := s.menu.CategoryNames()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (s *Server) menuForDisplay(c *gin.Context) {
	display, err := s.menu.ForDisplay()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": display})
}

func (s *Server) pagedCategories(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	pageData, err := s.menu.Paged(page, limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pageData)
}

func (s *Server) uploadMenuItem(c *gin.Context) {
	up, err := formUpload(c, "image")
	if err != nil {
		s.fail(c, err)
		return
	}

	fields := service.ItemFields{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	}
	if raw, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a number"})
			return
		}
		fields.Price = &price
	}

	cat, err := s.menu.AddItem(c.Request.Context(), c.PostForm("category"), fields, up)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "menuCategory": cat})
}

func (s *Server) updateMenuItem(c *gin.Context) {
	var patch models.MenuItemPatch
	if v, ok := c.GetPostForm("name"); ok {
		patch.Name = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		patch.Description = &v
	}
	if raw, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a number"})
			return
		}
		patch.Price = &price
	}

	var image *assets.Upload
	if _, err := c.FormFile("image"); err == nil {
		up, err := formUpload(c, "image")
		if err != nil {
			s.fail(c, err)
			return
		}
		image = &up
	}

	item, err := s.menu.UpdateItem(c.Request.Context(), c.Param("categoryId"), c.Param("itemId"), patch, image)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) deleteMenuItem(c *gin.Context) {
	if err := s.menu.DeleteItem(c.Request.Context(), c.Param("categoryId"), c.Param("itemId")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}

// --- reservations ---

func (s *Server) createReservation(c *gin.Context) {
	var req service.ReservationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation payload"})
		return
	}
	r, err := s.reservations.Create(req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (s *Server) getReservation(c *gin.Context) {
	r, err := s.reservations.GetByReference(c.Param("referenceNumber"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) listReservations(c *gin.Context) {
	list, err := s.reservations.ListAll()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) updateReservationStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	r, err := s.reservations.UpdateStatus(c.Param("id"), req.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// --- misc ---

func (s *Server) contactForm(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and message are required"})
		return
	}
	if s.adminEmail == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Contact form is not configured"})
		return
	}
	s.dispatcher.Enqueue(notify.Email{
		To:      s.adminEmail,
		Subject: "New Contact Form Submission from " + req.Name,
		Body:    "You have a new message from the contact form:\n\nName: " + req.Name + "\nEmail: " + req.Email + "\nMessage: " + req.Message,
	})
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message sent successfully"})
}

func (s *Server) adminEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	events.NewClient(s.hub, conn)
}

// fail maps a domain error to its HTTP status. Unexpected failures surface
// as a generic 500 with the detail logged, never echoed to the caller.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errs.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errs.IsUpload(err):
		s.log.Error("upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
	default:
		s.log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// formUpload reads the named multipart file into an Upload. A missing file
// comes back as a ValidationError so handlers share one error path.
func formUpload(c *gin.Context, field string) (assets.Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return assets.Upload{}, errs.Validation("image file is required")
	}
	return readUpload(header)
}

func readUpload(header *multipart.FileHeader) (assets.Upload, error) {
	file, err := header.Open()
	if err != nil {
		return assets.Upload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, assets.MaxUploadBytes+1))
	if err != nil {
		return assets.Upload{}, err
	}
	return assets.Upload{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
