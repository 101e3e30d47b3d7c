package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for storefront activity.
type BusinessMetrics struct {
	// Catalog
	ProductsCreated *prometheus.CounterVec
	ProductsUpdated prometheus.Counter
	ProductsDeleted prometheus.Counter
	ProductViews    prometheus.Counter
	ProductSearches *prometheus.CounterVec

	// Media
	ImageUploads        *prometheus.CounterVec
	ImageUploadFailures *prometheus.CounterVec
	ImageDeleteFailures *prometheus.CounterVec

	// Cart
	CartItemsAdded *prometheus.CounterVec
	CartUpdated    prometheus.Counter
	CartCleared    prometheus.Counter
	CartValue      prometheus.Histogram

	// Auth & accounts
	Signups     prometheus.Counter
	Logins      *prometheus.CounterVec
	LoginFailed *prometheus.CounterVec
	AuthRejects *prometheus.CounterVec

	// Events
	EventsPublished *prometheus.CounterVec
	EventsFailed    *prometheus.CounterVec
}

// NewBusinessMetrics creates and registers all business metrics with reg.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "forever"
	}

	subsystem := "business"
	factory := promauto.With(reg)

	return &BusinessMetrics{
		// =======================================================================
		// Catalog
		// =======================================================================
		ProductsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "products_created_total",
				Help:      "Total products added to the catalog",
			},
			[]string{"category"},
		),
		ProductsUpdated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "products_updated_total",
				Help:      "Total product updates",
			},
		),
		ProductsDeleted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "products_deleted_total",
				Help:      "Total products removed from the catalog",
			},
		),
		ProductViews: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_views_total",
				Help:      "Total single product lookups",
			},
		),
		ProductSearches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_searches_total",
				Help:      "Total product listings by whether any filter was applied",
			},
			[]string{"filtered"}, // filtered: true, false
		),

		// =======================================================================
		// Media
		// =======================================================================
		ImageUploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "image_uploads_total",
				Help:      "Total product images uploaded to the media host",
			},
			[]string{"operation"}, // operation: create, update
		),
		ImageUploadFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "image_upload_failures_total",
				Help:      "Total failed product image uploads",
			},
			[]string{"operation"},
		),
		ImageDeleteFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "image_delete_failures_total",
				Help:      "Total hosted images that could not be removed",
			},
			[]string{"operation"},
		),

		// =======================================================================
		// Cart
		// =======================================================================
		CartItemsAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_added_total",
				Help:      "Total add to cart actions",
			},
			[]string{"size"},
		),
		CartUpdated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_updates_total",
				Help:      "Total direct cart quantity changes",
			},
		),
		CartCleared: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_cleared_total",
				Help:      "Total cart resets",
			},
		),
		CartValue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_value",
				Help:      "Cart total after each write",
				Buckets:   []float64{0, 10, 25, 50, 100, 250, 500, 1000, 2500},
			},
		),

		// =======================================================================
		// Auth & Accounts
		// =======================================================================
		Signups: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "signups_total",
				Help:      "Total user registrations",
			},
		),
		Logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "logins_total",
				Help:      "Total successful logins",
			},
			[]string{"role"},
		),
		LoginFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "login_failures_total",
				Help:      "Total failed login attempts",
			},
			[]string{"role"},
		),
		AuthRejects: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "auth_rejections_total",
				Help:      "Total requests rejected by the token check",
			},
			[]string{"reason"}, // reason: missing, invalid, expired, forbidden
		),

		// =======================================================================
		// Events
		// =======================================================================
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_published_total",
				Help:      "Total domain events published",
			},
			[]string{"subject"},
		),
		EventsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_failed_total",
				Help:      "Total domain events that could not be published",
			},
			[]string{"subject"},
		),
	}
}

// Global instance for easy access from services and middleware
var Business *BusinessMetrics

// InitBusinessMetrics initializes the global business metrics instance
// against the default registry.
func InitBusinessMetrics(namespace string) *BusinessMetrics {
	Business = NewBusinessMetrics(namespace, prometheus.DefaultRegisterer)
	return Business
}
