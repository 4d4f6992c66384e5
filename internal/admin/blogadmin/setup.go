package blogadmin

import (
	"fmt"

	"blog-admin/internal/admin"
	artUC "blog-admin/internal/usecase/article"
	userUC "blog-admin/internal/usecase/user"
)

// Setup registers users and articles with site. It must be called once at startup.
func Setup(site *admin.Site, articles *artUC.Service, users *userUC.Service) error {
	if err := site.Register(UserSchema, UserAdmin, &UserBackend{Users: users}); err != nil {
		return fmt.Errorf("register users: %w", err)
	}
	if err := site.Register(ArticleSchema, ArticleAdmin, &ArticleBackend{Articles: articles, Users: users}); err != nil {
		return fmt.Errorf("register articles: %w", err)
	}
	return nil
}
