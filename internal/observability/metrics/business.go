package metrics

// RecordArticleCreated increments the created-articles counter.
func RecordArticleCreated() {
	ArticlesCreatedTotal.Inc()
}

// RecordArticleUpdated increments the article-updates counter.
func RecordArticleUpdated() {
	ArticlesUpdatedTotal.Inc()
}

// RecordArticlesDeleted adds count deleted articles under reason.
// Reason is "direct" for an article delete and "cascade" for articles removed with their author.
func RecordArticlesDeleted(reason string, count int64) {
	if count <= 0 {
		return
	}
	ArticlesDeletedTotal.WithLabelValues(reason).Add(float64(count))
}

// RecordAdminAction counts an admin site action (list, add, change, delete) on model.
func RecordAdminAction(model, action string) {
	AdminActionsTotal.WithLabelValues(model, action).Inc()
}

// UpdateArticlesTotal sets the article count gauge.
func UpdateArticlesTotal(count int64) {
	ArticlesTotal.Set(float64(count))
}

// UpdateDBConnectionStats sets the connection pool gauges.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
