package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vidforge/registry"
	"vidforge/types"
)

// RegisterGenerationRoutes registers the generation task endpoints.
func RegisterGenerationRoutes(r *gin.Engine, store *registry.Store, runner Runner) {
	h := &generationHandler{store: store, runner: runner}
	r.POST("/generate", h.handleGenerate)
	r.GET("/status/:id", h.handleStatus)
	r.GET("/results/:id", h.handleResults)
	r.DELETE("/task/:id", h.handleDelete)
}

type generationHandler struct {
	store  *registry.Store
	runner Runner
}

// handleGenerate accepts a generation request, registers a queued task and
// runs the pipeline in the background.
func (h *generationHandler) handleGenerate(c *gin.Context) {
	var req map[string]any
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taskName, ok := req["task_name"].(string)
	if !ok || taskName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task_name is required"})
		return
	}

	taskID := uuid.New().String()
	h.store.Create(taskID, taskName)

	go h.run(taskID, req)

	c.JSON(http.StatusOK, gin.H{
		"task_id": taskID,
		"status":  types.StatusQueued,
		"message": "Generation started",
	})
}

// run drives one task through the pipeline, mirroring progress and the
// terminal state into the registry.
func (h *generationHandler) run(taskID string, req map[string]any) {
	h.store.SetProcessing(taskID)

	result, err := h.runner.GenerateAll(context.Background(), taskID, req, func(completed, total int) {
		h.store.SetProgress(taskID, completed, total)
	})
	if err != nil {
		h.store.SetFailed(taskID, err.Error())
		return
	}
	h.store.SetCompleted(taskID, result)
}

// handleStatus reports the task's current state and progress.
func (h *generationHandler) handleStatus(c *gin.Context) {
	task, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// handleResults returns the final outcome of a completed task.
func (h *generationHandler) handleResults(c *gin.Context) {
	task, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}
	if task.Status != types.StatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Task not completed. Current status: %s", task.Status),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task_id":        task.ID,
		"task_name":      task.Name,
		"total_variants": len(task.Results) + task.FailedCount,
		"successful":     len(task.Results),
		"failed":         task.FailedCount,
		"files":          task.Results,
	})
}

// handleDelete removes the task from the registry.
func (h *generationHandler) handleDelete(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.Delete(id); err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted", "task_id": id})
}

func respondTaskError(c *gin.Context, err error) {
	if errors.Is(err, registry.ErrTaskNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
