package controllers

import (
	"net/http"

	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/pkg/bind"
	"github.com/ephremw/gebeya/pkg/response"
)

// UserController is the admin view over accounts.
type UserController struct {
	users *repositories.UserRepository
}

func NewUserController(users *repositories.UserRepository) *UserController {
	return &UserController{users: users}
}

// AdminList returns a page of accounts, newest first.
func (c *UserController) AdminList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)
	users, total, err := c.users.All(page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load users")
		return
	}
	response.Paginated(w, users, response.NewPagination(page, limit, total))
}

type roleRequest struct {
	Role string `json:"role" validate:"required,in=user,admin"`
}

// AdminSetRole promotes or demotes an account.
func (c *UserController) AdminSetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	user, err := c.users.FindByID(id)
	if err != nil {
		response.NotFound(w)
		return
	}

	var req roleRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user.Role = req.Role
	if err := c.users.Update(&user); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not update user")
		return
	}
	response.Success(w, user)
}
