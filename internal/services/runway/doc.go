// Package runway implements the visual synthesis and compositing provider
// client: one call per scene clip, one call to merge clips and audio into
// the final video. Both are asynchronous provider tasks that the client
// polls to completion.
package runway
