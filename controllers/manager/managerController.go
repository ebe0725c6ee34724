package managerController

import (
	"errors"
	"fmt"
	"log"
	"time"

	"flexreviews/middleware"
	"flexreviews/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ManagerController handles manager authentication and profile lookup
type ManagerController struct {
	DB *gorm.DB
}

func NewManagerController(db *gorm.DB) *ManagerController {
	return &ManagerController{DB: db}
}

// Login verifies manager credentials and issues a JWT
func (mc *ManagerController) Login(c *fiber.Ctx) error {
	reqData := new(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.Email == "" || reqData.Password == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email and password are required!", nil)
	}

	manager, err := mc.authenticate(reqData.Email, reqData.Password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
		}
		log.Printf("Error authenticating manager: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	token, err := middleware.GenerateJWT(manager.ID, manager.Name, manager.Role, manager.Email)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	now := time.Now()
	manager.LastLogin = &now
	mc.DB.Model(manager).Update("last_login", now)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token":   token,
		"manager": manager,
	})
}

// authenticate looks up an active manager and checks the credential hash.
// Unknown email and wrong password both collapse into ErrUnauthorized so the
// response never reveals which one failed.
func (mc *ManagerController) authenticate(email, password string) (*models.Manager, error) {
	var manager models.Manager
	if err := mc.DB.Where("email = ? AND is_deleted = false", email).First(&manager).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown manager", models.ErrUnauthorized)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(manager.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: credential mismatch", models.ErrUnauthorized)
	}
	return &manager, nil
}

// Profile returns the authenticated manager minus the credential hash
// (the password field never serializes).
func (mc *ManagerController) Profile(c *fiber.Ctx) error {
	managerID, ok := c.Locals("managerId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var manager models.Manager
	if err := mc.DB.Where("id = ? AND is_deleted = false", managerID).First(&manager).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Manager not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Manager fetched!", manager)
}
