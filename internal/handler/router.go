package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nightline/passhub/internal/config"
	"nightline/passhub/internal/handler/middleware"
	"nightline/passhub/internal/repository"
	jwtpkg "nightline/passhub/pkg/jwt"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	stateStore repository.StateStore,
	membershipHandler *MembershipHandler,
	tokenHandler *TokenHandler,
	inviteHandler *InviteHandler,
	billingHandler *BillingHandler,
	directoryHandler *DirectoryHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Membership / pass / invite surface called by the mobile client.
	r.POST("/acceptInvite", inviteHandler.AcceptInvite)
	r.POST("/deleteAccount", membershipHandler.DeleteAccount)
	r.POST("/deleteMembership", membershipHandler.DeleteMembership)
	r.GET("/fetchMembership", membershipHandler.FetchMembership)
	r.POST("/getInviteLink", inviteHandler.GetInviteLink)
	r.POST("/manualAddMembership", membershipHandler.ManualAddMembership)
	r.POST("/validateToken", tokenHandler.ValidateToken)

	// Billing
	r.POST("/stripeCheckout", billingHandler.CreateCheckout)
	r.GET("/fetchPlans", billingHandler.FetchPlans)
	// Stripe calls this one; signature verification is the auth.
	r.POST("/addMembership", billingHandler.Webhook)

	// Shared-link bounce into the app scheme.
	r.GET("/invite/:inviteCode", inviteHandler.Redirect)

	// Directory passthrough
	r.POST("/auth/login", directoryHandler.Login)

	authed := r.Group("/")
	authed.Use(middleware.JWTAuth(jwtManager, stateStore))
	{
		// Self sign-out only needs authentication; the service enforces
		// that callers match the target username.
		authed.POST("/signUserOut", directoryHandler.SignUserOut)
	}

	admin := r.Group("/")
	admin.Use(middleware.JWTAuth(jwtManager, stateStore))
	admin.Use(middleware.AdminAuth(cfg.Admin.UserIDs))
	{
		admin.GET("/getUser", directoryHandler.GetUser)
		admin.GET("/listUsers", directoryHandler.ListUsers)
		admin.GET("/listGroups", directoryHandler.ListGroups)
		admin.GET("/listGroupsForUser", directoryHandler.ListGroupsForUser)
		admin.GET("/listUsersInGroup", directoryHandler.ListUsersInGroup)
		admin.POST("/addUserToGroup", directoryHandler.AddUserToGroup)
		admin.POST("/removeUserFromGroup", directoryHandler.RemoveUserFromGroup)
		admin.POST("/confirmUserSignUp", directoryHandler.ConfirmUserSignUp)
		admin.POST("/disableUser", directoryHandler.DisableUser)
		admin.POST("/enableUser", directoryHandler.EnableUser)
	}

	return r
}
