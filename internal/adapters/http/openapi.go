package http

// openapiYAML is the API contract served at /openapi.yaml and rendered by the
// Swagger UI. It is maintained by hand; a test validates that it stays a well
// formed OpenAPI document and that its paths match the router.
const openapiYAML = `openapi: 3.0.3
info:
  title: Espalier API
  description: >
    Deterministic finite automata over HTTP. Run inputs through the built-in
    binary mod-three machine or custom registered machines, and walk machines
    symbol by symbol through durable sessions.
  version: 0.1.0
paths:
  /health:
    get:
      summary: Liveness probe
      operationId: getHealth
      responses:
        "200":
          description: Service is up
          content:
            application/json:
              schema:
                type: object
                properties:
                  status:
                    type: string
  /info:
    get:
      summary: Build and API versions
      operationId: getInfo
      responses:
        "200":
          description: Version information
          content:
            application/json:
              schema:
                type: object
                properties:
                  app:
                    type: string
                  version:
                    type: string
                  api_version:
                    type: string
  /metrics:
    get:
      summary: Prometheus metrics
      operationId: getMetrics
      responses:
        "200":
          description: Metrics in Prometheus text exposition format
          content:
            text/plain:
              schema:
                type: string
  /machines:
    get:
      summary: List registered machine names
      operationId: listMachines
      responses:
        "200":
          description: Machine names, sorted
          content:
            application/json:
              schema:
                type: array
                items:
                  type: string
    post:
      summary: Register a machine
      operationId: registerMachine
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/Machine"
      responses:
        "201":
          description: The machine as registered, states and alphabet normalized
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Machine"
        "400":
          $ref: "#/components/responses/BadRequest"
  /machines/{machine}:
    get:
      summary: Fetch a machine definition
      operationId: getMachine
      parameters:
        - $ref: "#/components/parameters/MachineName"
      responses:
        "200":
          description: The machine definition
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Machine"
        "404":
          $ref: "#/components/responses/NotFound"
  /machines/{machine}/graph:
    get:
      summary: Render a machine as a Mermaid diagram
      operationId: getMachineGraph
      parameters:
        - $ref: "#/components/parameters/MachineName"
        - name: session
          in: query
          required: false
          description: Highlight this session's current state
          schema:
            type: string
      responses:
        "200":
          description: Mermaid graph TD source
          content:
            text/plain:
              schema:
                type: string
        "404":
          $ref: "#/components/responses/NotFound"
        "409":
          $ref: "#/components/responses/Conflict"
  /machines/{machine}/run:
    post:
      summary: Run an input through a machine
      operationId: runMachine
      parameters:
        - $ref: "#/components/parameters/MachineName"
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/RunRequest"
      responses:
        "200":
          description: The input was accepted
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/RunResult"
        "400":
          $ref: "#/components/responses/BadRequest"
        "404":
          $ref: "#/components/responses/NotFound"
        "413":
          $ref: "#/components/responses/PayloadTooLarge"
        "422":
          $ref: "#/components/responses/Unprocessable"
  /mod3:
    post:
      summary: Compute value mod 3 for a binary string
      operationId: runModThree
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/ModThreeRequest"
      responses:
        "200":
          description: The remainder of the input read as a binary number
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/ModThreeResult"
        "400":
          $ref: "#/components/responses/BadRequest"
        "413":
          $ref: "#/components/responses/PayloadTooLarge"
  /sessions:
    get:
      summary: List session IDs
      operationId: listSessions
      responses:
        "200":
          description: IDs of all persisted sessions
          content:
            application/json:
              schema:
                type: array
                items:
                  type: string
    post:
      summary: Start or resume a session
      operationId: createSession
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/StartSessionRequest"
      responses:
        "201":
          description: The session, positioned at its current state
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Session"
        "404":
          $ref: "#/components/responses/NotFound"
        "409":
          $ref: "#/components/responses/Conflict"
  /sessions/{id}:
    get:
      summary: Inspect a session
      operationId: getSession
      parameters:
        - $ref: "#/components/parameters/SessionID"
      responses:
        "200":
          description: The session
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Session"
        "404":
          $ref: "#/components/responses/NotFound"
    delete:
      summary: Delete a session
      operationId: deleteSession
      parameters:
        - $ref: "#/components/parameters/SessionID"
      responses:
        "204":
          description: Deleted, or already absent
  /sessions/{id}/step:
    post:
      summary: Consume one symbol in a session
      operationId: stepSession
      parameters:
        - $ref: "#/components/parameters/SessionID"
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/StepRequest"
      responses:
        "200":
          description: The session after the step
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Session"
        "400":
          $ref: "#/components/responses/BadRequest"
        "404":
          $ref: "#/components/responses/NotFound"
        "422":
          $ref: "#/components/responses/Unprocessable"
  /sessions/{id}/reset:
    post:
      summary: Rewind a session to its start state
      operationId: resetSession
      parameters:
        - $ref: "#/components/parameters/SessionID"
      responses:
        "200":
          description: The session back at the start state
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Session"
        "404":
          $ref: "#/components/responses/NotFound"
components:
  parameters:
    MachineName:
      name: machine
      in: path
      required: true
      schema:
        type: string
    SessionID:
      name: id
      in: path
      required: true
      schema:
        type: string
  responses:
    BadRequest:
      description: Malformed request body, definition or input symbols
      content:
        application/json:
          schema:
            $ref: "#/components/schemas/Error"
    PayloadTooLarge:
      description: Input exceeds the maximum allowed size
      content:
        application/json:
          schema:
            $ref: "#/components/schemas/Error"
    NotFound:
      description: No machine or session under that name
      content:
        application/json:
          schema:
            $ref: "#/components/schemas/Error"
    Conflict:
      description: Session belongs to a different machine
      content:
        application/json:
          schema:
            $ref: "#/components/schemas/Error"
    Unprocessable:
      description: The machine processed the request but could not accept it
      content:
        application/json:
          schema:
            $ref: "#/components/schemas/Error"
  schemas:
    Error:
      type: object
      required:
        - error
      properties:
        error:
          type: string
    Machine:
      type: object
      required:
        - name
        - states
        - alphabet
        - start
      properties:
        name:
          type: string
        states:
          type: array
          items:
            type: string
        alphabet:
          type: array
          items:
            type: string
            maxLength: 1
        start:
          type: string
        accepting:
          type: array
          items:
            type: string
        transitions:
          type: object
          additionalProperties:
            type: object
            additionalProperties:
              type: string
    RunRequest:
      type: object
      required:
        - input
      properties:
        input:
          type: string
    RunResult:
      type: object
      properties:
        machine:
          type: string
        input:
          type: string
        state:
          type: string
        accepted:
          type: boolean
        steps:
          type: integer
    ModThreeRequest:
      type: object
      required:
        - input
      properties:
        input:
          type: string
          pattern: "^[01]*$"
    ModThreeResult:
      type: object
      properties:
        input:
          type: string
        remainder:
          type: integer
          minimum: 0
          maximum: 2
    StartSessionRequest:
      type: object
      required:
        - machine
      properties:
        machine:
          type: string
        id:
          type: string
    StepRequest:
      type: object
      required:
        - symbol
      properties:
        symbol:
          type: string
          minLength: 1
          maxLength: 1
    Session:
      type: object
      properties:
        id:
          type: string
        machine:
          type: string
        current:
          type: string
        steps:
          type: integer
        created_at:
          type: string
          format: date-time
        updated_at:
          type: string
          format: date-time
`
