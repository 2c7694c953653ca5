// handlers/params.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// idParam parses a positive integer path parameter.
func idParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, validationError(fmt.Sprintf("%s must be a positive integer", name))
	}
	return uint(id), nil
}

// intQuery parses a required integer query parameter.
func intQuery(c *fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, validationError(fmt.Sprintf("query parameter %s is required", name))
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validationError(fmt.Sprintf("query parameter %s must be an integer", name))
	}
	return n, nil
}

func limitQuery(c *fiber.Ctx) int {
	return c.QueryInt("limit", 100)
}

// bindJSON decodes a create payload; unknown fields such as id are ignored.
func bindJSON(c *fiber.Ctx, dst any) error {
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return validationError("invalid JSON body: " + err.Error())
	}
	return nil
}

// bindPatch decodes a patch payload and refuses fields outside the
// allow-listed struct.
func bindPatch(c *fiber.Ctx, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return validationError("invalid patch: " + err.Error())
	}
	return nil
}
