package blog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	postsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_posts_created_total",
		Help: "Posts whose metadata and content were both written.",
	})

	uploadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_post_upload_failures_total",
		Help: "Post uploads that failed on an infrastructure error, by stage.",
	}, []string{"stage"})

	orphansDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blog_orphaned_metadata_total",
		Help: "Post metadata rows found without content in the object store.",
	})
)
