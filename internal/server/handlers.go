package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mesh-intelligence/taskboard/internal/models"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// WelcomeMessage is the payload of GET /.
const WelcomeMessage = "Welcome to the Taskboard API"

func (s *Server) registerRoutes() {
	e := s.echo
	e.GET("/", s.welcome)

	users := e.Group("/users", s.serialize)
	users.POST("", s.createUser)
	users.GET("/:id", s.getUser)
	users.GET("/:id/tasks", s.listTasks)
	users.POST("/:id/tasks", s.createTask)

	tasks := e.Group("/tasks", s.serialize)
	tasks.GET("/:id/tags", s.listTaskTags)
	tasks.PUT("/:id/tags/:tag", s.assignTag)
	tasks.DELETE("/:id/tags/:tag", s.removeTag)
}

// serialize runs one store-backed handler at a time.
func (s *Server) serialize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": WelcomeMessage})
}

func (s *Server) getUser(c echo.Context) error {
	u, err := s.userParam(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u.View())
}

func (s *Server) createUser(c echo.Context) error {
	var attrs models.UserAttributes
	if err := c.Bind(&attrs); err != nil {
		return err
	}

	existing, err := s.models.FindUserByUsername(attrs.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, fmt.Sprintf("username %q is taken", attrs.Username))
	}

	u := s.models.NewUser()
	if err := u.Create(attrs); err != nil {
		return err
	}
	if !u.Save() {
		return u.LastErr()
	}
	return c.JSON(http.StatusCreated, u.View())
}

func (s *Server) listTasks(c echo.Context) error {
	u, err := s.userParam(c)
	if err != nil {
		return err
	}
	tasks, err := s.models.GetAllTaskByUserID(u.ID())
	if err != nil {
		return err
	}
	views := make([]models.TaskView, len(tasks))
	for i, t := range tasks {
		views[i] = t.View()
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) createTask(c echo.Context) error {
	u, err := s.userParam(c)
	if err != nil {
		return err
	}
	var attrs models.TaskAttributes
	if err := c.Bind(&attrs); err != nil {
		return err
	}
	attrs.UserID = u.ID()

	t := s.models.NewTask()
	if err := t.Create(attrs); err != nil {
		return err
	}
	if !t.Save() {
		return t.LastErr()
	}
	return c.JSON(http.StatusCreated, t.View())
}

func (s *Server) listTaskTags(c echo.Context) error {
	t, err := s.taskParam(c)
	if err != nil {
		return err
	}
	tags, err := s.models.GetAllTagsOfTask(t.ID())
	if err != nil {
		return err
	}
	views := make([]models.TagView, len(tags))
	for i, tag := range tags {
		views[i] = tag.View()
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) assignTag(c echo.Context) error {
	t, tag, err := s.taskTagParams(c)
	if err != nil {
		return err
	}
	if err := s.models.AssignTagToTask(t.ID(), tag.ID()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) removeTag(c echo.Context) error {
	t, tag, err := s.taskTagParams(c)
	if err != nil {
		return err
	}
	if err := s.models.RemoveTagOfTask(t.ID(), tag.ID()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func idParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s %q", name, c.Param(name)))
	}
	return id, nil
}

func (s *Server) userParam(c echo.Context) (*models.User, error) {
	id, err := idParam(c, "id")
	if err != nil {
		return nil, err
	}
	u, err := s.models.FindUserByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %d", types.ErrNotFound, id)
	}
	return u, nil
}

func (s *Server) taskParam(c echo.Context) (*models.Task, error) {
	id, err := idParam(c, "id")
	if err != nil {
		return nil, err
	}
	t, err := s.models.FindTaskByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: task %d", types.ErrNotFound, id)
	}
	return t, nil
}

func (s *Server) taskTagParams(c echo.Context) (*models.Task, *models.Tag, error) {
	t, err := s.taskParam(c)
	if err != nil {
		return nil, nil, err
	}
	tagID, err := idParam(c, "tag")
	if err != nil {
		return nil, nil, err
	}
	tag, err := s.models.FindTagByID(tagID)
	if err != nil {
		return nil, nil, err
	}
	if tag == nil {
		return nil, nil, fmt.Errorf("%w: tag %d", types.ErrNotFound, tagID)
	}
	return t, tag, nil
}
