// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package hass

import "context"

const (
	RecorderDomain       = "recorder"
	PurgeEntitiesService = "purge_entities"
)

// PurgeEntities asks the recorder integration to drop the recorded
// history of the supplied entities. The recorder applies it
// asynchronously; a nil error only means the request was accepted.
func (c *Client) PurgeEntities(ctx context.Context, entityIDs []string, repack bool) error {
	c.logger.Debug("purge", "entities", len(entityIDs), "repack", repack)
	return c.CallService(ctx, RecorderDomain, PurgeEntitiesService, map[string]any{
		"entity_ids": entityIDs,
		"repack":     repack,
	})
}

// HasPurgeService reports whether the recorder purge service is
// available on the connected instance.
func (c *Client) HasPurgeService(ctx context.Context) (bool, error) {
	return c.HasService(ctx, RecorderDomain, PurgeEntitiesService)
}
