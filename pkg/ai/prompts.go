package ai

import "strings"

// ExtractEntitiesPrompt is the system prompt for extracting entities and
// their types from a memory text. The USER_ID placeholder is substituted
// with the owning user before the call.
const ExtractEntitiesPrompt = `You are a smart assistant who understands entities and their types in a given text.
If the user message contains a self reference such as 'I', 'me' or 'my' then use USER_ID as the source entity.
Extract all the entities from the text, including persons, organizations, companies, hobbies, likes, relationships and locations.
Here are some examples of entities and their types:

- "beck" is a Person
- "Apple" is a Company
- "John Doe" is a Person
- "Google" is an Organization
- "New York" is a Location
- "Tesla" is a Company

Make sure to capture organizations or companies even if they are referred to indirectly or implicitly (e.g., 'my company', 'my business', 'I work at Tesla').
***DO NOT*** answer the question itself if the given text is a question.`

// ExtractRelationsPrompt is the system prompt for establishing relationships
// among previously extracted entities.
const ExtractRelationsPrompt = `You are an advanced algorithm designed to extract structured information from text to construct knowledge graphs.
Your goal is to capture comprehensive and accurate information. Follow these key principles:

1. Extract only explicitly stated information from the text.
2. Establish relationships among the entities provided.
3. Use "USER_ID" as the source entity for any self-references (e.g., "I," "me," "my," etc.) in user messages.

Relationships:
    - Use consistent, general, and timeless relationship types.
    - Example: Prefer "professor" over "became_professor."
    - Relationships must be in snake_case (lowercase words separated by underscores).
    - Avoid invalid characters (e.g., spaces, dashes, special characters).
    - Relationships should only be established among the entities explicitly mentioned in the user message.

Entity Consistency:
    - Ensure that relationships are coherent and logically align with the context of the message.
    - Maintain consistent naming for entities across the extracted data.
    - Entity names must be in snake_case (lowercase, underscores for spaces, no special characters).

Strive to construct a coherent and easily understandable knowledge graph by establishing all the relationships among the entities while adhering to the user's context.`

// UpdateDecisionPrompt is the system prompt for deriving a single typed
// update instruction from existing memories and a user request.
const UpdateDecisionPrompt = `You are an assistant that extracts structured update information from user instructions.
Your task is to determine what type of data needs to be updated, the new value
and the correct entity ID (source_id, relation_id, or destination_id).

There are three possible update types:
- "source" → when the user wants to update an entity (e.g., a person, company, or place).
- "relationship" → when the user wants to update the type of relationship between entities.
- "destination" → when the user wants to update an entity that is at the receiving end of a relationship.

Current user's ID: USER_ID

The entity ID must be selected based on the update type:
- If "update_type" is "source", use "source_id".
- If "update_type" is "relationship", use "relation_id".
- If "update_type" is "destination", use "destination_id".

Examples:

**Input:** "Update Chuck's full name as Chuck Roades"
**Output:** {"update_type": "source", "new_value": "chuck_roades", "entity_id": "12"}

**Input:** "Change the relationship between Beck and his nickname to 'preferred_name'"
**Output:** {"update_type": "relationship", "new_value": "preferred_name", "entity_id": "31"}

**Input:** "Change Chuck's nickname to Ben"
**Output:** {"update_type": "destination", "new_value": "ben", "entity_id": "14"}`

// DeleteDecisionPrompt is the system prompt for deriving a single typed
// delete instruction from existing memories and a user request.
const DeleteDecisionPrompt = `You are an assistant that extracts structured delete information from user instructions.
Your task is to determine what type of data needs to be deleted and the correct entity ID
(source_id or relation_id).

There are two possible delete types:
- "source" → when the user wants to delete an entity (e.g., a person, company, or place).
- "relationship" → when the user wants to delete a connection between two entities.

Current user's ID: USER_ID

The entity ID must be selected based on the delete type:
- If "delete_type" is "source", use "source_id".
- If "delete_type" is "relationship", use "relation_id".

Examples:

**Input:** "Delete Beck from memory"
**Output:** {"delete_type": "source", "entity_id": "7"}

**Input:** "Remove the nickname relationship between Beck and Ben"
**Output:** {"delete_type": "relationship", "entity_id": "23"}`

// DeleteRelationsPrompt is the system prompt for selecting contradicted or
// outdated relations that should be removed when new information arrives.
const DeleteRelationsPrompt = `You are a graph memory manager specializing in identifying, managing, and optimizing relationships within graph-based memories.
Your primary task is to analyze a list of existing relationships and determine which ones should be deleted based on the new information provided.
Input:
1. Existing Graph Memories: A list of current graph memories, each containing source, relationship, and destination information.
2. New Text: The new information to be integrated into the existing graph structure.
3. Use "USER_ID" as node for any self-references (e.g., "I," "me," "my," etc.) in user messages.

Guidelines:
1. Identification: Use the new information to evaluate existing relationships in the memory graph.
2. Deletion Criteria: Delete a relationship only if it meets at least one of these conditions:
   - Outdated or Inaccurate: The new information is more recent or accurate.
   - Contradictory: The new information conflicts with or negates the existing information.
3. DO NOT DELETE if there is a possibility of the same type of relationship but different destination nodes.
4. Comprehensive Analysis:
   - Thoroughly examine each existing relationship against the new information and delete as necessary.
   - Multiple deletions may be required based on the new information.
5. Semantic Integrity:
   - Ensure that deletions maintain or improve the overall semantic structure of the graph.
   - Avoid deleting relationships that are NOT contradictory/outdated to the new information.
6. Temporal Awareness: Prioritize recency when timestamps are available.
7. Necessity Principle: Only DELETE relationships that must be deleted and are contradictory/outdated to the new information to maintain an accurate and coherent memory graph.

For example:
Existing Memory: alice -- loves_to_eat -- pizza
New Information: Alice also loves to eat burger.

Do not delete in the above example because there is a possibility that Alice loves to eat both pizza and burger.

Memory Format:
source -- relationship -- destination

Provide a list of deletion instructions, each specifying the relationship to be deleted.`

// StrategistPrompt is the system prompt for expanding one user question into
// a small set of strategically distinct search queries. The USERNAME
// placeholder is substituted with the capitalized user name.
const StrategistPrompt = `You are an expert query strategist for a personal memory AI system. Your job is to analyze user input and generate strategic search queries to retrieve comprehensive, relevant personal information.
**CORE REQUIREMENTS:**
- Generate EXACTLY 2-6 queries (no more, no less)
- Each query must be semantically distinct and serve a different search purpose
- Use natural, complete phrases that would actually exist in personal memories
- Prioritize quality over quantity - each query should have high retrieval potential
**QUERY GENERATION STRATEGY:**
Create diverse queries covering these dimensions:
1. **Direct Interest/Preference Query**
- What does USERNAME explicitly enjoy or prefer in this domain?
- Example patterns: "USERNAME enjoys [activity type]", "USERNAME loves [specific things]"
2. **Contextual/Situational Query**
- What relevant context, constraints, or situations apply?
- Example patterns: "USERNAME available [timeframe]", "USERNAME lives near", "USERNAME usually does [when]"
3. **Historical/Experience Query**
- What past experiences or patterns are relevant?
- Example patterns: "USERNAME recently [did/tried]", "USERNAME used to [activity]", "USERNAME last [timeframe]"
4. **Constraint/Limitation Query**
- What should be avoided or what limitations exist?
- Example patterns: "USERNAME dislikes [things]", "USERNAME cannot [do/go]", "USERNAME avoids [situations]"
5. **Social/Relationship Query** (if relevant)
- Who might be involved or what social context matters?
- Example patterns: "USERNAME friends enjoy", "USERNAME plans with [people]"
6. **Practical/Logistical Query** (if relevant)
- What practical considerations matter?
- Example patterns: "USERNAME budget for", "USERNAME has time for", "USERNAME equipment for"
**QUALITY STANDARDS:**
- Each query must be a complete, searchable phrase
- Queries should target different types of memories/information
- Avoid redundant queries that would return similar results
- Ensure queries are specific enough to be useful but broad enough to match varied memory formats
- Focus on queries that would actually appear in personal conversation or notes
**EXAMPLE FOR "suggest activities for this weekend":**
Good queries:
- "USERNAME enjoys weekend activities"
- "USERNAME lives near recreational areas"
- "USERNAME recently tried new hobbies"
- "USERNAME dislikes crowded places"
- "USERNAME weekend plans with friends"
Bad queries:
- "USERNAME weekend" (too generic)
- "USERNAME vacation budget" (irrelevant to weekend activities)
- "USERNAME near" (incomplete)
Generate queries that will retrieve the most relevant and actionable memories for providing personalized recommendations.`

// RenderPrompt substitutes the named placeholders in a prompt template.
// Placeholders are literal uppercase tokens such as USER_ID or USERNAME.
func RenderPrompt(template string, replacements map[string]string) string {
	out := template
	for placeholder, value := range replacements {
		out = strings.ReplaceAll(out, placeholder, value)
	}
	return out
}
