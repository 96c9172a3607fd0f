/*
 * Copyright (c) 2025-2026, Veridata Inc. (https://www.veridata.io).
 *
 * Veridata Inc. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package errors

const errorPrefix = "ECS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	EXECUTE_QUERY = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while executing database query.",
	}

	TRANSACTION_FAILURE = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while executing database transaction.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Advisory lock acquisition failed.",
	}

	LOCK_RELEASE = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while releasing the advisory lock.",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error generating advisory lock key.",
	}

	LOCK_RESULT_INVALID = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Invalid response from advisory lock query.",
	}

	FETCH_ENTITIES = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while fetching entity record(s).",
	}

	APPLY_MERGE = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while applying the merge recommendation.",
	}

	CLASSIFIER_FAILURE = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Duplicate analysis failed.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while marshalling JSON.",
	}

	UNMARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while un-marshalling JSON.",
	}

	NATURAL_QUERY_FAILURE = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Natural language query failed.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid body format.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Unauthorized",
		Description: "Authorization failure. Authorization information was invalid or missing from your request.",
	}

	ENTITY_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Entity not found.",
		Description: "No entity record found for the given entity_id.",
	}

	EMPTY_REMOVE_SET = ErrorMessage{
		Code:        errorPrefix + "11004",
		Message:     "EmptyRemoveSet",
		Description: "A merge recommendation must name at least one entity to remove.",
	}

	KEEP_IN_REMOVE_SET = ErrorMessage{
		Code:        errorPrefix + "11005",
		Message:     "KeepInRemoveSet",
		Description: "The retained entity must not appear in the removal set.",
	}

	PLAN_MISMATCH = ErrorMessage{
		Code:        errorPrefix + "11006",
		Message:     "PlanMismatch",
		Description: "The deletion plan does not match the merge recommendation it was derived from.",
	}

	FOREIGN_ROW_LEAK = ErrorMessage{
		Code:        errorPrefix + "11007",
		Message:     "ForeignRowLeak",
		Description: "The deletion plan lists rows owned by an entity outside the removal set.",
	}

	INVALID_ENTITY_TYPE = ErrorMessage{
		Code:        errorPrefix + "11008",
		Message:     "Invalid entity type.",
		Description: "Entity type must be 1 (organization) or 2 (person).",
	}

	INVALID_REVIEW_TRANSITION = ErrorMessage{
		Code:        errorPrefix + "11009",
		Message:     "Invalid review state transition.",
		Description: "The requested review state transition is not permitted for this duplicate group.",
	}

	NO_ANALYSIS_SESSION = ErrorMessage{
		Code:        errorPrefix + "11010",
		Message:     "No analysis session.",
		Description: "No duplicate analysis result is held in the current session.",
	}
)
