package internal

import (
	"mafiabot/internal/controllers"
	"mafiabot/internal/providers"
	"mafiabot/internal/structures"
	"net/http"
)

func InitRoutes(admin *controllers.AdminController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider(conf.Admin.Token)

	routers.Post("/imagesonly", http.HandlerFunc(admin.ToggleImageOnly))
	routers.Get("/archive", http.HandlerFunc(admin.ListArchives))
	routers.Post("/archive", http.HandlerFunc(admin.SetArchive))
	routers.Post("/archive/stop", http.HandlerFunc(admin.StopArchive))
	routers.Post("/purge", http.HandlerFunc(admin.Purge))
	routers.Get("/posts", http.HandlerFunc(admin.ListPosts))
	routers.Post("/posts", http.HandlerFunc(admin.SavePost))
	routers.Post("/posts/delete", http.HandlerFunc(admin.DeletePost))
	routers.Get("/status", http.HandlerFunc(admin.Status))
	routers.Post("/avatar", http.HandlerFunc(admin.ChangeAvatar))
	routers.Post("/avatar/reset", http.HandlerFunc(admin.ResetAvatar))
	routers.Post("/jobs/run", http.HandlerFunc(admin.RunJob))
	return routers
}
