package constants

import "time"

// how long a pending command marker is honoured before a late
// confirmation is treated as an external change
const DefaultMarkerTimeout = 5 * time.Second
const MarkerSweepInterval = time.Second

const ObservationToleranceBrightness = 1
const InferenceTolerance = 1

// brightness used for "turn on" when no previous level is known
const DefaultOnBrightness = 100

const EventQueueSize = 16

// bridge events
const EventBatchTypeUpdate = "update"

const EventTypeZigbeeConnectivity = "zigbee_connectivity"
const EventStatusConnectivityIssue = "connectivity_issue"
const EventStatusConnected = "connected"

const EventTypeLight = "light"
